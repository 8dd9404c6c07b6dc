package document

import (
	"github.com/warehouse/backend/internal/domain/document"
	"github.com/warehouse/backend/internal/domain/shared"
)

// toDomainFilter maps the transport-level listing filter onto the shared
// repository filter
func toDomainFilter(filter ListFilter) (shared.Filter, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Status != nil {
		status := document.Status(*filter.Status)
		if !status.IsValid() {
			return shared.Filter{}, shared.NewDomainError("INVALID_STATUS", "Invalid document status")
		}
		domainFilter.Filters["status"] = status.String()
	}
	if filter.LocationID != nil {
		domainFilter.Filters["location_id"] = *filter.LocationID
	}
	return domainFilter, nil
}
