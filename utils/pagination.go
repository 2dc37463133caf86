package utils

// DefaultPageLimit is applied when the caller passes a non-positive limit.
const DefaultPageLimit = 20

// Window converts a (page, limit) request into a store-level (offset, limit)
// pair. Pages start at 1; page values below 1 are not validated here and
// produce a negative offset the store contract must reject. The actual skip
// and truncation happen in the store; ordering there is always newest first,
// ties broken by id descending so that equal timestamps paginate
// deterministically.
func Window(page, limit int) (offset, lim int) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	return (page - 1) * limit, limit
}
