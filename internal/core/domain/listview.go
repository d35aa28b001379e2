package domain

import "strings"

// TicketsPerPage is the fixed page size of the ticket list view.
const TicketsPerPage = 5

// StatusFilterAll matches every status.
const StatusFilterAll = "All"

// TicketListView is the derived view over the full ticket set: a status
// filter, a free-text search, and a 1-based page index. The view is pure;
// it never mutates the tickets it projects.
type TicketListView struct {
	statusFilter string
	search       string
	page         int
}

// NewTicketListView returns a view showing all statuses, no search, page 1.
func NewTicketListView() TicketListView {
	return TicketListView{
		statusFilter: StatusFilterAll,
		page:         1,
	}
}

// SetStatusFilter sets the status filter. The comparison against ticket
// statuses is case-exact; an empty filter means All.
func (v *TicketListView) SetStatusFilter(filter string) {
	if filter == "" {
		filter = StatusFilterAll
	}
	v.statusFilter = filter
}

// SetSearch sets the search string. Matching is trimmed and
// case-insensitive against title and description.
func (v *TicketListView) SetSearch(search string) {
	v.search = search
}

// SetPage requests a page change. Out-of-range requests (page < 1 or
// page > totalPages) are ignored and the view keeps its current page.
func (v *TicketListView) SetPage(page, totalPages int) {
	if page >= 1 && page <= totalPages {
		v.page = page
	}
}

// Page returns the view's current 1-based page index.
func (v *TicketListView) Page() int {
	return v.page
}

// matches applies the status filter and search to a single ticket.
func (v *TicketListView) matches(t *Ticket) bool {
	if v.statusFilter != StatusFilterAll && string(t.Status) != v.statusFilter {
		return false
	}

	search := strings.ToLower(strings.TrimSpace(v.search))
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), search) ||
		strings.Contains(strings.ToLower(t.Description), search)
}

// TotalPages returns the page count the filtered set would produce:
// ceil(matching / TicketsPerPage). Zero means no pagination at all.
func (v *TicketListView) TotalPages(tickets []*Ticket) int {
	matching := 0
	for _, t := range tickets {
		if v.matches(t) {
			matching++
		}
	}
	return (matching + TicketsPerPage - 1) / TicketsPerPage
}

// TicketListPage is the projected result delivered to the client.
type TicketListPage struct {
	Tickets       []*Ticket
	Page          int
	TotalPages    int
	TotalMatching int
}

// Apply projects the full ticket set through the view: status filter, then
// search, then pagination. The input order is preserved (callers supply the
// set ordered by CreatedAt descending).
func (v *TicketListView) Apply(tickets []*Ticket) TicketListPage {
	filtered := make([]*Ticket, 0, len(tickets))
	for _, t := range tickets {
		if v.matches(t) {
			filtered = append(filtered, t)
		}
	}

	totalPages := (len(filtered) + TicketsPerPage - 1) / TicketsPerPage

	start := (v.page - 1) * TicketsPerPage
	end := start + TicketsPerPage
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return TicketListPage{
		Tickets:       filtered[start:end],
		Page:          v.page,
		TotalPages:    totalPages,
		TotalMatching: len(filtered),
	}
}
