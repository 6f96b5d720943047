package models

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContactStore(t *testing.T) *ContactStore {
	db := InitializeTestDb()
	t.Cleanup(func() { CloseDB(db) })

	store, err := NewContactStore(db)
	require.Nil(t, err)

	return store
}

func countContacts(t *testing.T, store *ContactStore) int64 {
	var total int64
	require.Nil(t, store.db.Model(&Contact{}).Count(&total).Error)
	return total
}

func TestUpsertContactNormalizesPhoneNumber(t *testing.T) {
	store := newTestContactStore(t)

	contact, err := store.UpsertContact("Ravi", "9876543210")
	require.Nil(t, err)
	assert.Equal(t, "+919876543210", contact.PhoneNumber)
	assert.Equal(t, "Ravi", contact.Name)
	assert.NotZero(t, contact.ID)

	phoneNumber, err := store.LatestPhoneNumber()
	assert.Nil(t, err)
	assert.Equal(t, "+919876543210", phoneNumber)
}

func TestUpsertContactAcceptsPrefixedNumber(t *testing.T) {
	store := newTestContactStore(t)

	contact, err := store.UpsertContact("", " +919876543210 ")
	require.Nil(t, err)
	assert.Equal(t, "+919876543210", contact.PhoneNumber)
	assert.Empty(t, contact.Name)
}

func TestUpsertContactReplacesExistingContact(t *testing.T) {
	store := newTestContactStore(t)

	first, err := store.UpsertContact("Ravi", "9876543210")
	require.Nil(t, err)

	second, err := store.UpsertContact("Asha", "9123456780")
	require.Nil(t, err)

	assert.Equal(t, first.ID, second.ID, "Should update the existing row in place")
	assert.Equal(t, int64(1), countContacts(t, store))

	contact, err := store.FindContact()
	require.Nil(t, err)
	assert.Equal(t, "Asha", contact.Name)
	assert.Equal(t, "+919123456780", contact.PhoneNumber)

	phoneNumber, err := store.LatestPhoneNumber()
	assert.Nil(t, err)
	assert.Equal(t, "+919123456780", phoneNumber)
}

func TestUpsertContactRejectsInvalidNumbers(t *testing.T) {
	store := newTestContactStore(t)

	_, err := store.UpsertContact("Ravi", "9876543210")
	require.Nil(t, err)

	invalidNumbers := []string{"", "12345", "98765432101", "98765abcde", "+19876543210", "919876543210"}
	for _, phoneNumber := range invalidNumbers {
		_, err := store.UpsertContact("Mallory", phoneNumber)

		var validationErr *ValidationError
		assert.True(t, errors.As(err, &validationErr), "Should reject %q", phoneNumber)
	}

	contact, err := store.FindContact()
	require.Nil(t, err)
	assert.Equal(t, "Ravi", contact.Name, "Prior contact should be left unchanged")
	assert.Equal(t, "+919876543210", contact.PhoneNumber)
	assert.Equal(t, int64(1), countContacts(t, store))
}

func TestUpsertContactCollapsesStrayRows(t *testing.T) {
	store := newTestContactStore(t)

	require.Nil(t, store.db.Create(&Contact{Name: "old", PhoneNumber: "+911111111111"}).Error)
	require.Nil(t, store.db.Create(&Contact{Name: "older", PhoneNumber: "+912222222222"}).Error)

	_, err := store.UpsertContact("Ravi", "9876543210")
	require.Nil(t, err)
	assert.Equal(t, int64(1), countContacts(t, store))

	contact, err := store.FindContact()
	require.Nil(t, err)

	phoneNumber, err := store.LatestPhoneNumber()
	require.Nil(t, err)
	assert.Equal(t, contact.PhoneNumber, phoneNumber)
}

func TestFindContactWhenUnset(t *testing.T) {
	store := newTestContactStore(t)

	contact, err := store.FindContact()
	assert.Nil(t, contact)
	assert.True(t, errors.Is(err, ErrContactNotFound))

	phoneNumber, err := store.LatestPhoneNumber()
	assert.Empty(t, phoneNumber)
	assert.True(t, errors.Is(err, ErrContactNotFound))
}

func TestPersistenceErrorOnClosedDb(t *testing.T) {
	db := InitializeTestDb()
	store, err := NewContactStore(db)
	require.Nil(t, err)
	require.Nil(t, CloseDB(db))

	_, err = store.UpsertContact("Ravi", "9876543210")

	var persistenceErr *PersistenceError
	assert.True(t, errors.As(err, &persistenceErr))
}
