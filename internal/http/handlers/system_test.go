package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	intconfig "sessiondesk/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveJournalCheck(t *testing.T) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/db-check", nil)
	JournalCheck(c)
	return w
}

func TestJournalCheckDisabled(t *testing.T) {
	prev := intconfig.DB
	intconfig.DB = nil
	t.Cleanup(func() { intconfig.DB = prev })

	w := serveJournalCheck(t)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"journal":"disabled"}`, w.Body.String())
}

func TestJournalCheckCountsEntries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	prev := intconfig.DB
	intconfig.DB = db
	t.Cleanup(func() { intconfig.DB = prev })

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM mutation_journal").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	w := serveJournalCheck(t)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"journal":"ok","entries":12}`, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournalCheckUnavailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	prev := intconfig.DB
	intconfig.DB = db
	t.Cleanup(func() { intconfig.DB = prev })

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM mutation_journal").
		WillReturnError(errors.New("connection refused"))

	w := serveJournalCheck(t)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "journal_unavailable")
}
