package plugin

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// ContextFamily is the family carried by a Context's root instance.
const ContextFamily = "__context__"

// Well-known data keys.
const (
	KeyPublish     = "publish"
	KeyLabel       = "label"
	KeyName        = "name"
	KeyFamily      = "family"
	KeyHost        = "host"
	KeyConnectTime = "connectTime"
	KeyComment     = "comment"
	KeyIntent      = "intent"
)

// Context is the mutable working set of one publish run: a root instance
// holding run-wide data plus the instances collectors created.
type Context struct {
	mu        sync.RWMutex
	root      *Instance
	instances []*Instance
}

// NewContext returns an empty Context whose root instance is named
// "context" and publishes.
func NewContext() *Context {
	c := &Context{}
	c.root = newInstance(c, "context", ContextFamily)
	c.root.Set(KeyLabel, "Context")
	return c
}

// Root returns the distinguished context instance.
func (c *Context) Root() *Instance { return c.root }

// Data reads a run-wide value.
func (c *Context) Data(key string) (any, bool) { return c.root.Data(key) }

// Set stores a run-wide value.
func (c *Context) Set(key string, value any) { c.root.Set(key, value) }

// CreateInstance appends a new publishing instance.
func (c *Context) CreateInstance(name, family string) *Instance {
	inst := newInstance(c, name, family)
	c.mu.Lock()
	c.instances = append(c.instances, inst)
	c.mu.Unlock()
	return inst
}

// Remove drops inst from the Context. It reports whether inst was present.
func (c *Context) Remove(inst *Instance) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, candidate := range c.instances {
		if candidate == inst {
			c.instances = append(c.instances[:i:i], c.instances[i+1:]...)
			return true
		}
	}
	return false
}

// Instances returns a snapshot in insertion order.
func (c *Context) Instances() []*Instance {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*Instance(nil), c.instances...)
}

// Len returns the number of instances.
func (c *Context) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.instances)
}

// Lookup finds an instance by ID, falling back to the first with a matching name.
func (c *Context) Lookup(idOrName string) (*Instance, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, inst := range c.instances {
		if inst.ID == idOrName {
			return inst, true
		}
	}
	for _, inst := range c.instances {
		if inst.Name() == idOrName {
			return inst, true
		}
	}
	return nil, false
}

// Instance is one unit of publishable data.
type Instance struct {
	ID string

	mu       sync.RWMutex
	context  *Context
	families []string
	data     map[string]any
}

func newInstance(c *Context, name, family string) *Instance {
	return &Instance{
		ID:      uuid.NewString(),
		context: c,
		data: map[string]any{
			KeyName:    name,
			KeyFamily:  family,
			KeyPublish: true,
		},
	}
}

// Context returns the owning Context.
func (i *Instance) Context() *Context { return i.context }

// Name returns the instance name.
func (i *Instance) Name() string { return i.stringData(KeyName) }

// Family returns the primary family.
func (i *Instance) Family() string { return i.stringData(KeyFamily) }

// Label returns the display label, defaulting to the name.
func (i *Instance) Label() string {
	if label := i.stringData(KeyLabel); label != "" {
		return label
	}
	return i.Name()
}

// Families returns the additional families, excluding the primary one.
func (i *Instance) Families() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return append([]string(nil), i.families...)
}

// AllFamilies returns the primary family followed by the additional ones.
func (i *Instance) AllFamilies() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make([]string, 0, len(i.families)+1)
	if family, _ := i.data[KeyFamily].(string); family != "" {
		out = append(out, family)
	}
	for _, family := range i.families {
		if !contains(out, family) {
			out = append(out, family)
		}
	}
	return out
}

// AddFamily attaches an additional family.
func (i *Instance) AddFamily(family string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if family == "" || contains(i.families, family) {
		return
	}
	i.families = append(i.families, family)
}

// Publish reports whether the instance takes part in the run. Only an
// explicit false disables it.
func (i *Instance) Publish() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	value, ok := i.data[KeyPublish].(bool)
	return !ok || value
}

// SetPublish toggles the publish flag.
func (i *Instance) SetPublish(publish bool) { i.Set(KeyPublish, publish) }

// Data reads one value.
func (i *Instance) Data(key string) (any, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	value, ok := i.data[key]
	return value, ok
}

// Set stores one value.
func (i *Instance) Set(key string, value any) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.data[key] = value
}

// Keys returns the data keys in sorted order.
func (i *Instance) Keys() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	keys := make([]string, 0, len(i.data))
	for key := range i.data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (i *Instance) String() string { return i.Name() }

func (i *Instance) stringData(key string) string {
	value, _ := i.Data(key)
	s, _ := value.(string)
	return s
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
