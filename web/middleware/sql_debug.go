package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/salesanalytics/database"
)

// SQLQueryCountHeader carries the number of statements a request executed
const SQLQueryCountHeader = "X-SQL-Query-Count"

// SQLDebugMiddleware exposes the statements executed while serving a request.
// Requests served concurrently may see each other's statements.
func SQLDebugMiddleware(queries *database.QueryLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		beforeCount := queries.Count()

		err := c.Next()

		executed := queries.Count() - beforeCount

		c.Locals("SQLQueries", queries.GetRecentQueries(executed))
		c.Locals("TotalSQLQueries", executed)
		c.Set(SQLQueryCountHeader, strconv.Itoa(executed))

		return err
	}
}
