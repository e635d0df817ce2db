package contracts

// Logger is the logging capability components receive at construction
// time.  *log.Logger from github.com/labstack/gommon satisfies it.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}
