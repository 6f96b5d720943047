package models

import (
	"strings"

	"github.com/Daskott/soilsense/shared"
	"github.com/go-playground/validator"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Contact is the farmer who receives moisture alerts. Only one row is ever kept.
type Contact struct {
	BaseModel
	Name        string `json:"name" validate:"max=100"`
	PhoneNumber string `json:"phoneNumber" validate:"required,phone_number" gorm:"not null;unique"`
}

type ContactStore struct {
	db       *gorm.DB
	validate *validator.Validate
}

func NewContactStore(db *gorm.DB) (*ContactStore, error) {
	validate, err := shared.NewValidator()
	if err != nil {
		return nil, err
	}

	return &ContactStore{db: db, validate: validate}, nil
}

// UpsertContact normalizes & validates the phone number, then replaces the stored contact
// with the given values. Any stray rows are removed in the same transaction so the
// table always holds at most one contact.
func (store *ContactStore) UpsertContact(name, phoneNumber string) (*Contact, error) {
	contact := Contact{
		Name:        strings.TrimSpace(name),
		PhoneNumber: shared.NormalizePhoneNumber(phoneNumber),
	}

	if err := store.validate.Struct(contact); err != nil {
		return nil, &ValidationError{Err: err}
	}

	err := store.db.Transaction(func(tx *gorm.DB) error {
		existing := Contact{}
		err := tx.Last(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&contact).Error
		}

		if err != nil {
			return err
		}

		err = tx.Where("id <> ?", existing.ID).Delete(&Contact{}).Error
		if err != nil {
			return err
		}

		err = tx.Model(&existing).Select("name", "phone_number").Updates(Contact{
			Name:        contact.Name,
			PhoneNumber: contact.PhoneNumber,
		}).Error
		if err != nil {
			return err
		}

		return tx.First(&contact, existing.ID).Error
	})
	if err != nil {
		return nil, &PersistenceError{Op: "upsert contact", Err: err}
	}

	return &contact, nil
}

// FindContact returns the stored contact or ErrContactNotFound
func (store *ContactStore) FindContact() (*Contact, error) {
	contact := Contact{}

	err := store.db.First(&contact).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrContactNotFound
	}

	if err != nil {
		return nil, &PersistenceError{Op: "find contact", Err: err}
	}

	return &contact, nil
}

// LatestPhoneNumber returns the phone number of the most recently written contact
func (store *ContactStore) LatestPhoneNumber() (string, error) {
	contact := Contact{}

	err := store.db.Select("id", "phone_number").Last(&contact).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrContactNotFound
	}

	if err != nil {
		return "", &PersistenceError{Op: "find latest phone number", Err: err}
	}

	return contact.PhoneNumber, nil
}
