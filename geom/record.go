package geom

// Record is the atomic unit of data. Identity is the ID: two records with
// the same ID are the same record regardless of their geometry.
type Record struct {
	ID         uint64
	Geometry   Geometry
	Attributes []string
}

// NewRecord returns a record holding g and the given attributes.
func NewRecord(id uint64, g Geometry, attributes ...string) Record {
	return Record{ID: id, Geometry: g, Attributes: attributes}
}

// Envelope returns the bounding box of the record's geometry.
func (r Record) Envelope() Envelope {
	return r.Geometry.Envelope()
}

// Validate rejects records whose geometry was not built by a constructor.
func (r Record) Validate() error {
	if !r.Geometry.IsValid() {
		return &ErrInvalidRecord{ID: r.ID, cause: invalidf("zero geometry")}
	}
	if !r.Geometry.env.isFinite() {
		return &ErrInvalidRecord{ID: r.ID, cause: invalidf("non-finite envelope %v", r.Geometry.env)}
	}
	return nil
}

// EnvelopeOf returns the union of the envelopes of records.
func EnvelopeOf(records []Record) Envelope {
	env := EmptyEnvelope()
	for i := range records {
		env = env.Union(records[i].Envelope())
	}
	return env
}
