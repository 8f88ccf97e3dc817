package csvdata

// Row is one parsed record. Index is 0-based among data rows (the header is
// not counted). Offset and End give the record's byte span in the source so
// it can be seeked to directly later.
type Row struct {
	Index  int
	Fields []string
	Offset int64
	End    int64
}
