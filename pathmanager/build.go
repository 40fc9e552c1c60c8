package pathmanager

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/structive-go/structive/structivepath"
)

// New walks stateType's fields and methods and builds its Path Manager.
func New(stateType reflect.Type) (*Manager, error) {
	for stateType.Kind() == reflect.Ptr {
		stateType = stateType.Elem()
	}
	m := newManager(stateType)

	if err := m.collectMethods(stateType); err != nil {
		return nil, err
	}
	if stateType.Kind() == reflect.Struct {
		if err := m.walkStruct(stateType, nil); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func fieldSegment(f reflect.StructField) (string, bool) {
	if f.PkgPath != "" {
		return "", false // unexported
	}
	if tag, ok := f.Tag.Lookup(StructTag); ok {
		if tag == "-" {
			return "", false
		}
		name, _, _ := strings.Cut(tag, ",")
		if name != "" {
			return name, true
		}
	}
	return lowerFirst(f.Name), true
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// walkStruct registers every declared path and its prefixes in Alls,
// creates the corresponding Path Tree nodes, and marks list/element paths.
// prefixSegs is the path segments accumulated so far (nil for the struct root).
func (m *Manager) walkStruct(t reflect.Type, prefixSegs []string) error {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous {
			ft := f.Type
			for ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				if err := m.walkStruct(ft, prefixSegs); err != nil {
					return err
				}
			}
			continue
		}
		seg, ok := fieldSegment(f)
		if !ok {
			continue
		}
		segs := append(append([]string{}, prefixSegs...), seg)
		path := strings.Join(segs, ".")
		if err := m.registerPath(path); err != nil {
			return err
		}

		ft := f.Type
		switch ft.Kind() {
		case reflect.Slice, reflect.Array:
			m.Lists[path] = struct{}{}
			elemSegs := append(append([]string{}, segs...), "*")
			elemPath := strings.Join(elemSegs, ".")
			if err := m.registerPath(elemPath); err != nil {
				return err
			}
			m.Elements[elemPath] = struct{}{}

			elemType := ft.Elem()
			for elemType.Kind() == reflect.Ptr {
				elemType = elemType.Elem()
			}
			if elemType.Kind() == reflect.Struct {
				if err := m.walkStruct(elemType, elemSegs); err != nil {
					return err
				}
			}
		case reflect.Struct:
			if err := m.walkStruct(ft, segs); err != nil {
				return err
			}
		case reflect.Ptr:
			et := ft.Elem()
			if et.Kind() == reflect.Struct {
				if err := m.walkStruct(et, segs); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// registerPath adds path and every prefix it implies to Alls and the Path
// Tree, and records the static parent->self dependency edge.
func (m *Manager) registerPath(path string) error {
	if _, ok := m.Alls[path]; ok {
		return nil
	}
	node, err := structivepath.AddPathNode(m.Root, path)
	if err != nil {
		return err
	}
	m.Alls[path] = struct{}{}
	if parent := node.Parent(); parent != nil && parent.Info() != nil {
		m.addStaticDependency(parent.Info().Pattern(), path)
	}
	return nil
}

func (m *Manager) addStaticDependency(parent, child string) {
	set, ok := m.StaticDependencies[parent]
	if !ok {
		set = map[string]struct{}{}
		m.StaticDependencies[parent] = set
	}
	set[child] = struct{}{}
}

// AddPath extends the Manager at runtime with a path not known at
// construction time.
func (m *Manager) AddPath(path string, isList bool) error {
	if err := m.registerPath(path); err != nil {
		return err
	}
	if isList {
		m.Lists[path] = struct{}{}
	}
	return nil
}

// AddDynamicDependency records a getter->referent edge discovered at
// runtime, deduped.
func (m *Manager) AddDynamicDependency(source, target string) {
	if source == target {
		return
	}
	set, ok := m.DynamicDependencies[source]
	if !ok {
		set = map[string]struct{}{}
		m.DynamicDependencies[source] = set
	}
	set[target] = struct{}{}
}

// collectMethods classifies the state type's method set into funcs,
// getters/setters/getterSetters/onlyGetters, and the three lifecycle
// flags.
func (m *Manager) collectMethods(t reflect.Type) error {
	ptr := reflect.PointerTo(t)

	type getterInfo struct {
		hasGetter  bool
		hasSetter  bool
		getterName string
		setterName string
	}
	byName := map[string]*getterInfo{}

	for _, mt := range []reflect.Type{t, ptr} {
		for i := 0; i < mt.NumMethod(); i++ {
			meth := mt.Method(i)
			if meth.PkgPath != "" {
				continue // unexported
			}
			switch meth.Name {
			case "ConnectedCallback":
				m.HasConnectedCallback = true
				continue
			case "DisconnectedCallback":
				m.HasDisconnectedCallback = true
				continue
			case "UpdatedCallback":
				m.HasUpdatedCallback = true
				continue
			case "SetStateAccess":
				// stateproxy.AccessReceiver plumbing, not a state path.
				continue
			}

			mtype := meth.Func.Type()
			// method receiver is argument 0.
			numIn := mtype.NumIn() - 1
			numOut := mtype.NumOut()

			if strings.HasPrefix(meth.Name, "Set") && len(meth.Name) > 3 && numIn == 1 && numOut == 0 {
				name := lowerFirst(meth.Name[3:])
				gi := byName[name]
				if gi == nil {
					gi = &getterInfo{}
					byName[name] = gi
				}
				gi.hasSetter = true
				gi.setterName = meth.Name
				continue
			}
			if numIn == 0 && numOut == 1 {
				name := lowerFirst(meth.Name)
				gi := byName[name]
				if gi == nil {
					gi = &getterInfo{}
					byName[name] = gi
				}
				gi.hasGetter = true
				gi.getterName = meth.Name
				continue
			}
			m.Funcs[meth.Name] = struct{}{}
		}
	}

	for name, gi := range byName {
		if !gi.hasGetter {
			// setter-only property: writable through the proxy, never
			// readable (a read falls through to the field walk and fails).
			if err := m.registerPath(name); err != nil {
				return err
			}
			m.Setters[name] = struct{}{}
			m.SetterMethodName[name] = gi.setterName
			continue
		}
		if err := m.registerPath(name); err != nil {
			return err
		}
		m.Getters[name] = struct{}{}
		m.GetterMethodName[name] = gi.getterName
		if gi.hasSetter {
			m.Setters[name] = struct{}{}
			m.GetterSetters[name] = struct{}{}
			m.SetterMethodName[name] = gi.setterName
		} else {
			m.OnlyGetters[name] = struct{}{}
		}
	}
	return nil
}
