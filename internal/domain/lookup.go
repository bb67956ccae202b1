package domain

type LookupStatus string

const (
	LookupFound          LookupStatus = "found"
	LookupNotFound       LookupStatus = "not_found"
	LookupTransportError LookupStatus = "transport_error"
)

// Lookup is the outcome of a single remote call. Callers that only care about
// presence use Record/Found; Status and Err stay available for diagnostics.
type Lookup struct {
	Status LookupStatus
	Record MovieRecord
	Err    error
}

func Found(record MovieRecord) Lookup {
	return Lookup{Status: LookupFound, Record: record}
}

func NotFound() Lookup {
	return Lookup{Status: LookupNotFound}
}

func TransportError(err error) Lookup {
	return Lookup{Status: LookupTransportError, Err: err}
}

// Found collapses the lookup to a binary found/absent result.
func (l Lookup) Found() (MovieRecord, bool) {
	if l.Status != LookupFound {
		return MovieRecord{}, false
	}
	return l.Record, true
}

// PageLookup is the outcome of a single search page call.
type PageLookup struct {
	Status LookupStatus
	Page   SearchPage
	Err    error
}

// Stubs collapses the lookup to the page's stubs, empty unless found.
func (l PageLookup) Stubs() []SearchStub {
	if l.Status != LookupFound {
		return nil
	}
	return l.Page.Stubs
}
