package listing

// TotalPages is the number of pages needed for count items, never less than one.
func TotalPages(count, size int) int {
	if size <= 0 {
		size = 1
	}
	if count <= 0 {
		return 1
	}
	return (count + size - 1) / size
}

// Paginate returns the 1-based page of items, or nil past the end.
func Paginate[T any](items []T, page, size int) []T {
	if size <= 0 || page < 1 {
		return nil
	}
	start := (page - 1) * size
	if start >= len(items) {
		return nil
	}
	end := min(start+size, len(items))
	return items[start:end]
}

// Paginator tracks the current page over a count that changes as filters do.
// Every mutator leaves 1 <= Page() <= TotalPages().
type Paginator struct {
	page  int
	size  int
	count int
}

func NewPaginator(size int) *Paginator {
	p := &Paginator{page: 1, size: max(1, size)}
	p.clamp()
	return p
}

func (p *Paginator) Page() int {
	return p.page
}

func (p *Paginator) PageSize() int {
	return p.size
}

func (p *Paginator) Count() int {
	return p.count
}

func (p *Paginator) TotalPages() int {
	return TotalPages(p.count, p.size)
}

func (p *Paginator) CanPrev() bool {
	return p.page > 1
}

func (p *Paginator) CanNext() bool {
	return p.page < p.TotalPages()
}

func (p *Paginator) SetCount(n int) {
	p.count = max(0, n)
	p.clamp()
}

func (p *Paginator) SetPage(n int) {
	p.page = n
	p.clamp()
}

func (p *Paginator) NextPage() {
	p.SetPage(p.page + 1)
}

func (p *Paginator) PrevPage() {
	p.SetPage(p.page - 1)
}

// SetPageSize changes the page size and returns to the first page.
func (p *Paginator) SetPageSize(n int) {
	p.size = max(1, n)
	p.page = 1
	p.clamp()
}

// Bounds returns the half-open index range of the current page.
func (p *Paginator) Bounds() (start, end int) {
	start = min((p.page-1)*p.size, p.count)
	end = min(start+p.size, p.count)
	return start, end
}

func (p *Paginator) clamp() {
	p.page = min(max(1, p.page), p.TotalPages())
}
