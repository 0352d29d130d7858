package query

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func paginationFor(t *testing.T, rawQuery string) (*Pagination, error) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/entries?"+rawQuery, nil)
	return GetPaginationFromQuery(c)
}

func TestGetPaginationFromQueryDefaults(t *testing.T) {
	p, err := paginationFor(t, "")
	require.NoError(t, err)
	require.Equal(t, 20, *p.Limit)
	require.Nil(t, p.After)
	require.Equal(t, "asc", p.Order)
}

func TestGetPaginationFromQueryParsesValues(t *testing.T) {
	p, err := paginationFor(t, "limit=5&after=17&order=desc")
	require.NoError(t, err)
	require.Equal(t, 5, *p.Limit)
	require.Equal(t, uint(17), *p.After)
	require.Equal(t, "desc", p.Order)
}

func TestGetPaginationFromQueryRejectsBadInput(t *testing.T) {
	for _, rawQuery := range []string{
		"limit=0",
		"limit=-3",
		"limit=abc",
		"after=xyz",
		"order=sideways",
	} {
		_, err := paginationFor(t, rawQuery)
		require.Error(t, err, "query %q", rawQuery)
	}
}

func TestLimitOrDefault(t *testing.T) {
	var p *Pagination
	require.Equal(t, 20, p.LimitOrDefault(20))
	require.Equal(t, 20, (&Pagination{}).LimitOrDefault(20))
	five := 5
	require.Equal(t, 5, (&Pagination{Limit: &five}).LimitOrDefault(20))
}
