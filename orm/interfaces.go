package orm

import (
	"github.com/gogo/protobuf/proto"
)

// Model is an entity a ModelBucket can store. Validate runs before every
// write, so an invalid model never reaches the store.
type Model interface {
	proto.Message
	Validate() error
}
