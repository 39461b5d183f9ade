package logging

import (
	"log"
	"os"
)

var debugMode bool

// Init routes the standard logger to stdout with microsecond timestamps.
func Init(debug bool) {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	debugMode = debug
}

// Debugf logs only when debug mode is enabled.
func Debugf(format string, v ...interface{}) {
	if debugMode {
		log.Printf("[DEBUG] "+format, v...)
	}
}
