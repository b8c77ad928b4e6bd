package api

import (
	"net/url"

	"github.com/google/go-querystring/query"
	"go.uber.org/zap"

	"github.com/getmentor/supercoach-admin/pkg/logger"
)

// EncodeQuery turns a filter struct into query parameters using its `url` tags.
// Filter fields are tagged omitempty, so an empty filter yields no query at all.
func EncodeQuery(filter any) url.Values {
	values, err := query.Values(filter)
	if err != nil {
		logger.Warn("Failed to encode query filter", zap.Error(err))
		return url.Values{}
	}
	return values
}
