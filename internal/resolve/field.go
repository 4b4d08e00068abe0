package resolve

// FindField resolves a field access `className.fieldName`, checking
// the unit currently being compiled, then its superclass chain, then
// its implemented interfaces' constant fields — mirroring
// original_source/pyjopa's _find_field/_find_field_in_interfaces.
func (r *Resolver) FindField(className, fieldName string) (*ResolvedField, error) {
	lc, info, err := r.lookupClass(className)
	if err != nil {
		return nil, err
	}

	if lc != nil {
		if f, ok := lc.Fields[fieldName]; ok {
			return &ResolvedField{
				Owner: lc.InternalName, Descriptor: f.Type.Descriptor(), Type: f.Type, IsStatic: f.IsStatic,
			}, nil
		}
		if lc.SuperClass != "" && lc.SuperClass != lc.InternalName {
			if found, err := r.FindField(lc.SuperClass, fieldName); err != nil || found != nil {
				return found, err
			}
		}
		return r.findFieldInInterfaces(lc.Interfaces, fieldName, make(map[string]bool))
	}

	if info == nil {
		return nil, nil
	}

	current := info
	for current != nil {
		for _, f := range current.Fields {
			if f.Name != fieldName {
				continue
			}
			return &ResolvedField{
				Owner: current.Name, Descriptor: f.Descriptor,
				Type: classpathDescriptorType(f.Descriptor), IsStatic: f.AccessFlags&0x0008 != 0,
			}, nil
		}
		if current.SuperClass == "" {
			break
		}
		_, next, err := r.lookupClass(current.SuperClass)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return r.findFieldInInterfaces(info.Interfaces, fieldName, make(map[string]bool))
}

func (r *Resolver) findFieldInInterfaces(interfaces []string, fieldName string, visited map[string]bool) (*ResolvedField, error) {
	for _, iface := range interfaces {
		if visited[iface] {
			continue
		}
		visited[iface] = true

		lc, info, err := r.lookupClass(iface)
		if err != nil {
			return nil, err
		}
		if lc != nil {
			if f, ok := lc.Fields[fieldName]; ok {
				return &ResolvedField{Owner: lc.InternalName, Descriptor: f.Type.Descriptor(), Type: f.Type, IsStatic: f.IsStatic}, nil
			}
			if found, err := r.findFieldInInterfaces(lc.Interfaces, fieldName, visited); err != nil || found != nil {
				return found, err
			}
			continue
		}
		if info == nil {
			continue
		}
		for _, f := range info.Fields {
			if f.Name == fieldName {
				return &ResolvedField{
					Owner: info.Name, Descriptor: f.Descriptor,
					Type: classpathDescriptorType(f.Descriptor), IsStatic: f.AccessFlags&0x0008 != 0,
				}, nil
			}
		}
		if found, err := r.findFieldInInterfaces(info.Interfaces, fieldName, visited); err != nil || found != nil {
			return found, err
		}
	}
	return nil, nil
}
