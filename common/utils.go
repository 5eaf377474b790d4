package common

import (
	"os"
	"time"
)

// MaxInt the largest int value
const MaxInt = int(^uint(0) >> 1)

// FileExist check if the file exists
func FileExist(filePath string) bool {
	fileInfo, err := os.Stat(filePath)
	return err == nil && fileInfo != nil
}

// Now the current unix timestamp in seconds. Persistent timestamps
// throughout the repo use this unit.
func Now() int64 {
	return time.Now().Unix()
}
