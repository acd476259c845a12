package platform

// DefaultAppName is reported to the notification service when Options
// leaves AppName empty.
const DefaultAppName = "Layerpaint"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// AppName identifies the sender to the notification service.
	AppName string
	// IconPath, when non-empty, points to an image file the notification
	// center should display alongside the message.
	IconPath string
	// TimeoutMS is how long the notification stays up; zero means 5s.
	TimeoutMS int32
}

func (o Options) appName() string {
	if o.AppName == "" {
		return DefaultAppName
	}
	return o.AppName
}

func (o Options) timeout() int32 {
	if o.TimeoutMS <= 0 {
		return 5000
	}
	return o.TimeoutMS
}
