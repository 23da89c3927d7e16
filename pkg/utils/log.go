package utils

import (
	"github.com/sirupsen/logrus"
)

// Log is the logger of the embedding layer; hosts may swap its formatter.
var Log = logrus.New()
