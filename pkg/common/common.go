package common

import (
	"crypto/sha256"
	"fmt"
	"os"
	"sync"

	"github.com/bwmarrin/snowflake"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var (
	snowflakeNode *snowflake.Node
	snowflakeOnce sync.Once
)

// UUIDint64 returns a cluster-safe int64 identifier.
func UUIDint64() int64 {
	snowflakeOnce.Do(func() {
		var err error
		snowflakeNode, err = snowflake.NewNode(1)
		if err != nil {
			panic(err)
		}
	})
	return snowflakeNode.Generate().Int64()
}

// GetSecretSalt reads the instance salt from the environment, falling back
// to a fixed development value.
func GetSecretSalt() string {
	if salt := os.Getenv("NEXPOS_SECRET_SALT"); salt != "" {
		return salt
	}
	return "nexpos-dev-salt"
}

func Sha256HashWithSalt(src string, salt string) string {
	h := sha256.New()
	h.Write([]byte(src + salt))
	return fmt.Sprintf("%x", h.Sum(nil))
}
