package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apiError "github.com/isaiahpere/notion-clony/internal/errors"
	"github.com/isaiahpere/notion-clony/internal/logger"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next() // Execute the handler first

		// detect any errors
		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err

			var apiErr *apiError.APIError

			// if it's our custom APIError
			if !errors.As(err, &apiErr) {
				// If it's a raw error we didn't wrap, treat as Internal
				apiErr = apiError.Internal(err)
			}

			if apiErr.Status >= 500 {
				logger.Sugar.Errorw("request failed",
					"path", c.FullPath(),
					"status", apiErr.Status,
					"err", apiErr.Internal,
				)
			} else {
				logger.Sugar.Infow(apiErr.Message,
					"path", c.FullPath(),
					"status", apiErr.Status,
					"err", apiErr.Internal,
				)
			}

			// Respond with JSON
			c.AbortWithStatusJSON(apiErr.Status, apiErr)
		}
	}
}
