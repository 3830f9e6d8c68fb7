package chaincfg

import (
	"github.com/altcoinj/altcoin/infrastructure/logger"
)

var log, _ = logger.Get(logger.SubsystemTags.CCFG)
