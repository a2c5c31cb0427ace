package core

// Logger is any logging service.
// args may contain errors, extra data maps and the acting profile.Profile, which loggers may report separately.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Person identifies whoever triggered a log entry.
type Person interface {
	PersonID() string
	PersonName() string
	PersonEmail() string
}
