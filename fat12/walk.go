package fat12

// ReadDir returns the flattened directory listing starting at the root,
// recursing into every subdirectory. Paths use forward slashes; root-level
// entries carry no leading slash (spec §4.4).
func (v *Volume) ReadDir() []DirEntry {
	root := v.rootDirectoryBytes()
	return v.walk(root, "")
}

func (v *Volume) rootDirectoryBytes() []byte {
	end := v.rootStart + v.rootByteCount
	if end > len(v.flat) {
		end = len(v.flat)
	}
	if v.rootStart > len(v.flat) {
		return nil
	}
	return v.flat[v.rootStart:end]
}

// walk parses dirBuf, emits every non-synthetic entry with prefix applied,
// and recurses into subdirectories. "." and ".." are filtered here (not in
// parseDirectory, which returns the raw parse including them).
func (v *Volume) walk(dirBuf []byte, prefix string) []DirEntry {
	var out []DirEntry

	for _, e := range parseDirectory(dirBuf) {
		if e.ShortName == "." || e.ShortName == ".." {
			continue
		}

		path := e.ShortName
		if e.Name != "" {
			path = e.Name
		}
		if prefix != "" {
			path = prefix + "/" + path
		}
		e.Path = path
		out = append(out, e)

		if e.IsDir && e.Cluster >= 2 {
			sub := v.ReadChain(e.Cluster, Unbounded)
			out = append(out, v.walk(sub, path)...)
		}
	}

	return out
}
