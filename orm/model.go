package orm

import (
	"reflect"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	vault.Persistent
	Validate() error
}

// Cloneable is implemented by models that can create an independent copy of
// themselves.
type Cloneable interface {
	Copy() Model
}

// ModelSlicePtr represents a pointer to a slice of models. Think of it as
// *[]Model Because of Go type system, using []Model type would not work for us.
// Instead we use a placeholder type and the validation is done during the
// runtime.
type ModelSlicePtr interface{}

// modelSliceLoader appends models to a destination slice, that is either
// *[]T or *[]*T, where *T implements Model.
type modelSliceLoader struct {
	dest    reflect.Value
	elem    reflect.Type
	pointer bool
}

func newModelSliceLoader(destination ModelSlicePtr) (*modelSliceLoader, error) {
	dest := reflect.ValueOf(destination)
	if dest.Kind() != reflect.Ptr || dest.IsNil() {
		return nil, errors.Wrap(errors.ErrType, "destination must be a non nil pointer")
	}
	if dest.Elem().Kind() != reflect.Slice {
		return nil, errors.Wrap(errors.ErrType, "destination must be a pointer to a slice of models")
	}
	elem := dest.Elem().Type().Elem()
	pointer := elem.Kind() == reflect.Ptr
	if pointer {
		elem = elem.Elem()
	}
	if !reflect.PtrTo(elem).Implements(reflect.TypeOf((*Model)(nil)).Elem()) {
		return nil, errors.Wrapf(errors.ErrType, "%s is not a model", elem)
	}
	return &modelSliceLoader{dest: dest.Elem(), elem: elem, pointer: pointer}, nil
}

// load unmarshals given raw data into a new model instance and appends it to
// the destination.
func (l *modelSliceLoader) load(raw []byte) error {
	ptr := reflect.New(l.elem)
	if err := ptr.Interface().(Model).Unmarshal(raw); err != nil {
		return errors.Wrap(err, "cannot unmarshal model")
	}
	if l.pointer {
		l.dest.Set(reflect.Append(l.dest, ptr))
	} else {
		l.dest.Set(reflect.Append(l.dest, ptr.Elem()))
	}
	return nil
}
