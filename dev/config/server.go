package config

// SERVER_YML is the config used when running with --dev.
// Twilio runs in dry-run mode so no real messages go out.
const SERVER_YML = `
soilsense:
  moistureThreshold: 30
  cron:
    timeZone: ""
    dailyCheckAt: "09:00"
    runOnStartup: true
  listener:
    port: 3000

sensor:
  url: "http://localhost:4000/api/sensor-data/latest"
  field: soilMoisture
  timeout: 10s

sqlite:
  passPhrase: passphrase

twilio:
  accountSid:
  authToken:
  from: "+15005550006"
  messagingServiceSid:
  timeout: 15s
  dryRun: true

google:
  storage:
    bucket: "soilsense"
    prefix: "soilsense-dev"
    sqliteBackupSchedule: "*/30 * * * *"
    enableSqliteBackupAndSync: false
  applicationCredentials:
`
