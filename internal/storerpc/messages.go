package storerpc

import (
	"fmt"

	"github.com/dmitrijs2005/vignaraja/internal/common"
	"github.com/dmitrijs2005/vignaraja/internal/docstore"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	fieldPath    = "path"
	fieldValue   = "value"
	fieldExists  = "exists"
	fieldUpdates = "updates"
)

// PathRequest builds the request for Get, Remove and Watch.
func PathRequest(path string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldPath: structpb.NewStringValue(path),
	}}
}

// SetRequest builds the Set request. value must already be normalized.
func SetRequest(path string, value any) (*structpb.Struct, error) {
	v, err := structpb.NewValue(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldPath:  structpb.NewStringValue(path),
		fieldValue: v,
	}}, nil
}

// UpdateRequest builds the Update request; nil values encode deletes.
func UpdateRequest(m docstore.Mutation) (*structpb.Struct, error) {
	updates := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(m))}
	for p, value := range m {
		v, err := structpb.NewValue(value)
		if err != nil {
			return nil, fmt.Errorf("%w: path %q: %v", common.ErrorValidation, p, err)
		}
		updates.Fields[p] = v
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldUpdates: structpb.NewStructValue(updates),
	}}, nil
}

// PathOf returns the path field of a request.
func PathOf(req *structpb.Struct) string {
	return req.GetFields()[fieldPath].GetStringValue()
}

// ValueOf returns the value field of a Set request.
func ValueOf(req *structpb.Struct) any {
	v, ok := req.GetFields()[fieldValue]
	if !ok {
		return nil
	}
	return v.AsInterface()
}

// UpdatesOf returns the path → value map of an Update request.
func UpdatesOf(req *structpb.Struct) (map[string]any, error) {
	u, ok := req.GetFields()[fieldUpdates]
	if !ok || u.GetStructValue() == nil {
		return nil, fmt.Errorf("%w: missing updates", common.ErrorValidation)
	}
	out := make(map[string]any, len(u.GetStructValue().GetFields()))
	for p, v := range u.GetStructValue().GetFields() {
		out[p] = v.AsInterface()
	}
	return out, nil
}

// SnapshotMessage encodes a snapshot for Get responses and Watch frames.
func SnapshotMessage(s docstore.Snapshot) (*structpb.Struct, error) {
	v, err := structpb.NewValue(s.Value)
	if err != nil {
		return nil, err
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldPath:   structpb.NewStringValue(s.Path),
		fieldExists: structpb.NewBoolValue(s.Exists),
		fieldValue:  v,
	}}, nil
}

// SnapshotOf decodes a Get response or Watch frame.
func SnapshotOf(msg *structpb.Struct) docstore.Snapshot {
	f := msg.GetFields()
	s := docstore.Snapshot{
		Path:   f[fieldPath].GetStringValue(),
		Exists: f[fieldExists].GetBoolValue(),
	}
	if s.Exists {
		s.Value = f[fieldValue].AsInterface()
	}
	return s
}
