package utxoindex

import "github.com/cashtokens/cashtokend/infrastructure/logger"

var log = logger.RegisterSubSystem("UTXI")
