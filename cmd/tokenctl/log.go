package main

import (
	"github.com/cashtokens/cashtokend/infrastructure/logger"
	"github.com/cashtokens/cashtokend/util/panics"
)

var log = logger.RegisterSubSystem("TKCT")
var spawn = panics.GoroutineWrapperFunc(log)
