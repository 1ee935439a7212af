package dirstat

// DirectorySizes maps directory paths to the total size of every file below them.
// Directories without any file below them are absent.
type DirectorySizes map[Path]uint64

// Aggregate credits every file's size to each of its ancestors, the root included.
func Aggregate(index FileIndex) DirectorySizes {
	sizes := make(DirectorySizes)

	for file, size := range index {
		if file.IsRoot() {
			continue
		}

		dir := file.Parent()
		for {
			sizes[dir] += size

			if dir.IsRoot() {
				break
			}

			dir = dir.Parent()
		}
	}

	return sizes
}
