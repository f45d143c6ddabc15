package types

import (
	"fmt"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/teris-io/shortid"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex doc_01HZX3Q9V5N6T8W2K4M7R1B0CD
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

var (
	sidGenerator *shortid.Shortid
	once         sync.Once
)

func initializeSID() {
	var err error
	sidGenerator, err = shortid.New(1, shortid.DefaultABC, 2342)
	if err != nil {
		panic("failed to initialize shortid generator: " + err.Error())
	}
}

// GenerateShortID returns a lower-case short id safe to use in object keys
func GenerateShortID() string {
	once.Do(initializeSID)

	id, err := sidGenerator.Generate()
	if err != nil {
		return strings.ToLower(GenerateUUID()[16:])
	}
	return strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(id))
}

const (
	UUID_PREFIX_DOCUMENT         = "doc"
	UUID_PREFIX_LOGICAL_DOCUMENT = "ldoc"
	UUID_PREFIX_CUSTOMER         = "cust"
	UUID_PREFIX_PROPERTY         = "prop"
	UUID_PREFIX_TEMPLATE         = "tmpl"
	UUID_PREFIX_USER             = "user"
)
