package domain

const (
	defaultPageNumber = 1
	defaultPageSize   = 10
)

type Page struct {
	Number int
	Size   int
}

func NewPage(pageNumber, pageSize int) Page {
	pNumber := defaultPageNumber
	if pageNumber > 0 {
		pNumber = pageNumber
	}

	pSize := defaultPageSize
	if pageSize > 0 {
		pSize = pageSize
	}

	return Page{
		Number: pNumber,
		Size:   pSize,
	}
}

// Offset is the number of entries preceding the page.
func (p Page) Offset() int {
	return p.Number*p.Size - p.Size
}
