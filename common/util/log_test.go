package util

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/crossledger/crossledger/common"
)

func TestSetupLogger(t *testing.T) {
	assert := assert.New(t)

	oldLevel := viper.GetString(common.CfgLogLevel)
	defer func() {
		viper.Set(common.CfgLogLevel, oldLevel)
		SetupLogger()
	}()

	viper.Set(common.CfgLogLevel, "debug")
	SetupLogger()
	assert.Equal(log.DebugLevel, log.GetLevel())

	// An unparsable level leaves the current level untouched.
	viper.Set(common.CfgLogLevel, "not-a-level")
	SetupLogger()
	assert.Equal(log.DebugLevel, log.GetLevel())

	viper.Set(common.CfgLogLevel, "warn")
	SetupLogger()
	assert.Equal(log.WarnLevel, log.GetLevel())
}
