// Package resource provides API response transformers.
//
// Define a Resource to control exactly what JSON shape an endpoint returns:
//
//	type ProductResource struct{ resource.Base }
//	func (r *ProductResource) ToArray(v interface{}) resource.Map {
//	    p := v.(models.Product)
//	    return resource.Map{
//	        "id":       p.ID,
//	        "name":     p.Name,
//	        "price":    p.Price,
//	        "quantity": p.Quantity,
//	    }
//	}
//
// Respond:
//
//	resource.New(&ProductResource{}, product).Respond(w)
//	resource.CollectionOf(&ProductResource{}, products).Respond(w)
package resource

import (
	"encoding/json"
	"net/http"
	"reflect"

	"github.com/freshmandi/freshmandi/pkg/orm"
)

// Map is the output shape of ToArray.
type Map = map[string]interface{}

// Transformer defines the single method a Resource must implement.
type Transformer interface {
	// ToArray converts one model instance into a Map.
	ToArray(v interface{}) Map
}

// Base can be embedded in any Resource to satisfy future extension points.
type Base struct{}

// ------------------- Single resource -------------------

// Resource wraps a single model with its transformer.
type Resource struct {
	transformer Transformer
	data        interface{}
	meta        Map
}

// New creates a Resource for a single model instance.
func New(t Transformer, data interface{}) *Resource {
	return &Resource{transformer: t, data: data}
}

// WithMeta attaches additional metadata to the response envelope.
func (r *Resource) WithMeta(meta Map) *Resource {
	r.meta = meta
	return r
}

// MarshalJSON implements json.Marshaler so a Resource can be nested inside
// another resource's Map.
func (r *Resource) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.transformer.ToArray(r.data))
}

// Respond writes the resource as JSON with status 200.
func (r *Resource) Respond(w http.ResponseWriter) {
	out := Map{"data": r.transformer.ToArray(r.data)}
	if r.meta != nil {
		out["meta"] = r.meta
	}
	writeJSON(w, http.StatusOK, out)
}

// ------------------- Collection resource -------------------

// Collection wraps a slice of models with a transformer.
type Collection struct {
	transformer Transformer
	items       interface{}
	pagination  *orm.Pagination
	meta        Map
}

// CollectionOf creates a Collection from a slice (passed as interface{}).
// items must be a []SomeModel.
func CollectionOf(t Transformer, items interface{}) *Collection {
	return &Collection{transformer: t, items: items}
}

// WithPagination attaches pagination metadata.
func (c *Collection) WithPagination(p orm.Pagination) *Collection {
	c.pagination = &p
	return c
}

// WithMeta attaches extra metadata.
func (c *Collection) WithMeta(meta Map) *Collection {
	c.meta = meta
	return c
}

// transform walks the slice and runs each element through the transformer.
// Elements are passed to ToArray as their concrete type, so transformers can
// type-assert directly.
func (c *Collection) transform() []Map {
	rv := reflect.ValueOf(c.items)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice {
		return []Map{}
	}

	out := make([]Map, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out = append(out, c.transformer.ToArray(rv.Index(i).Interface()))
	}
	return out
}

// MarshalJSON lets a Collection be nested inside another resource's Map.
func (c *Collection) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.transform())
}

// Respond writes the collection as JSON with status 200.
func (c *Collection) Respond(w http.ResponseWriter) {
	out := Map{"data": c.transform()}
	if c.pagination != nil {
		out["pagination"] = c.pagination
	}
	if c.meta != nil {
		out["meta"] = c.meta
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
