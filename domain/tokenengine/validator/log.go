package validator

import "github.com/cashtokens/cashtokend/infrastructure/logger"

var log = logger.RegisterSubSystem("TOKV")
