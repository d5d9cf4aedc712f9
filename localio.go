package gitbookconverter

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// closeWithLog closes an io.Closer and logs any error with the given context
func closeWithLog(c io.Closer, context string) {
	if err := c.Close(); err != nil {
		log.Errorf("Error closing %s: %v", context, err)
	}
}

// removeAllWithLog deletes a temporary workspace and logs any error
func removeAllWithLog(path string) {
	if err := os.RemoveAll(path); err != nil {
		log.Warnf("Failed to remove workspace %s: %v", path, err)
	}
}
