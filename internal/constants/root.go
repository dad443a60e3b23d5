package constants

import "time"

const (
	AppName            = "flashnote"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/flashnote"
	DefaultConfigPath  = "~/.config/flashnote/config.toml"
	DefaultStoragePath = "~/.config/flashnote/flashnote.db"
	Version            = "v0.3.0"

	// DBConnectionEnv overrides the storage location with a PostgreSQL connection string
	DBConnectionEnv = "FLASHNOTE_DB_CONNECTION"

	// Scheduling constants
	MaxScheduledNotificationCount = 64
	EndOfQueueID                  = 999
	EndOfQueueMessage             = "You have reached the end"
	EndOfQueueDelay               = 1 * time.Second

	// Notify constants
	NotifierLockfileName   = "flashnote-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.flashnote"
	TrayExecutablePrefix   = "flashnote-tray"
	TraySecretHeader       = "X-Flashnote-Secret"
	MaxDeliveredHistory    = 64
	DefaultChannelID       = "flashnote-default"
	DefaultChannelName     = "Flash notes"
	LocalNotifTitle        = "Local Notification"
	LocalNotifMessage      = "My Notification Message"

	// Watch constants
	DefaultPollInterval = 2 * time.Second
)
