package telegram

// page describes one window over an ordered list
type page struct {
	index      int // clamped page index, zero based
	totalPages int
	start      int // first item on this page
	end        int // one past the last item on this page
	total      int // item count across all pages
}

// paginate computes the window for the requested page index. Out-of-range
// requests clamp to the nearest valid page, so a stale Next press after a
// deletion lands on the last page instead of erroring. An empty list yields a
// single empty page.
func paginate(count, size, requested int) page {
	if size < 1 {
		size = 1
	}
	if count <= 0 {
		return page{index: 0, totalPages: 1, start: 0, end: 0, total: 0}
	}

	totalPages := (count + size - 1) / size
	index := requested
	if index < 0 {
		index = 0
	}
	if index >= totalPages {
		index = totalPages - 1
	}

	start := index * size
	end := start + size
	if end > count {
		end = count
	}

	return page{index: index, totalPages: totalPages, start: start, end: end, total: count}
}

func (p page) hasPrev() bool { return p.index > 0 }

func (p page) hasNext() bool { return p.index < p.totalPages-1 }
