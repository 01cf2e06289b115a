package setup

import (
	"github.com/kbukum/gostream/config"
)

// Config is satisfied by *config.Settings and by any struct embedding
// config.Settings by value, through the promoted methods.
type Config interface {
	GetSettings() *config.Settings
	ApplyDefaults()
	Validate() error
}
