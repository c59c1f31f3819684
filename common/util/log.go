package util

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/crossledger/crossledger/common"
)

// SetupLogger configures the global logger from the viper configuration.
// Embedding applications call it once at startup.
func SetupLogger() {
	customFormatter := new(log.TextFormatter)
	customFormatter.TimestampFormat = "2006-01-02 15:04:05"
	customFormatter.FullTimestamp = true
	log.SetFormatter(customFormatter)

	if level, err := log.ParseLevel(viper.GetString(common.CfgLogLevel)); err == nil {
		log.SetLevel(level)
	}
}
