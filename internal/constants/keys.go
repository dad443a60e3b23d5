package constants

// Storage keys. The first two match the keys the mobile app used so an
// exported store can be read back unchanged.
const (
	PreferencesKey = "FlashNoteApp::Preferences"
	QueueKey       = "FlashNoteApp::Queue"
	ScheduledKey   = "FlashNoteApp::Scheduled"
	DeliveredKey   = "FlashNoteApp::Delivered"
	PermissionsKey = "FlashNoteApp::Permissions"
	ChannelKey     = "FlashNoteApp::Channel"
)
