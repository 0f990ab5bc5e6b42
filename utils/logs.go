package utils

import (
	"fmt"
	"log"
)

var engineLog bool
var serverLog bool

func InitLog(engine, server bool) {
	engineLog = engine
	serverLog = server
}

func EngineLog(format string, v ...any) {
	if engineLog {
		log.Printf("INFO Engine: %s", fmt.Sprintf(format, v...))
	}
}

func ServerLog(format string, v ...any) {
	if serverLog {
		log.Printf("INFO Server: %s", fmt.Sprintf(format, v...))
	}
}

func WarnLog(component string, format string, v ...any) {
	log.Printf("WARN %s: %s", component, fmt.Sprintf(format, v...))
}
