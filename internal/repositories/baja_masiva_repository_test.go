package repositories

import (
	"context"
	"testing"
	"time"

	"sierras-backend/internal/models"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBaja(fecha time.Time) *models.BajaMasiva {
	return &models.BajaMasiva{
		FechaBaja:     fecha,
		Observaciones: "dientes gastados",
		UsuarioID:     5,
	}
}

// Each sierra of the batch gets a join row with its activo flag snapshot
// and is deactivated into Fuera de servicio.
func TestBajaCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	fecha := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	baja := newBaja(fecha)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO bajas_masivas").
		WithArgs(fecha, "dientes gastados", 5).
		WillReturnRows(pgxmock.NewRows([]string{"id", "creado_en"}).AddRow(4, time.Now()))

	for _, sierraID := range []int{1, 2} {
		mock.ExpectExec("INSERT INTO baja_masiva_sierras").
			WithArgs(4, sierraID).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec("UPDATE sierras").
			WithArgs(models.EstadoFueraDeServicio, sierraID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	}
	mock.ExpectCommit()

	repo := &BajaMasivaRepository{DB: mock}
	err = repo.Create(context.Background(), baja, []int{1, 2})

	require.NoError(t, err)
	assert.Equal(t, 4, baja.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A sierra deactivated by someone else misses the activo guard and rolls
// the whole batch back.
func TestBajaCreateStaleSierraRollsBack(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	fecha := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	baja := newBaja(fecha)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO bajas_masivas").
		WithArgs(fecha, "dientes gastados", 5).
		WillReturnRows(pgxmock.NewRows([]string{"id", "creado_en"}).AddRow(6, time.Now()))
	mock.ExpectExec("INSERT INTO baja_masiva_sierras").
		WithArgs(6, 1).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE sierras").
		WithArgs(models.EstadoFueraDeServicio, 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	repo := &BajaMasivaRepository{DB: mock}
	err = repo.Create(context.Background(), baja, []int{1, 2})

	assert.ErrorIs(t, err, ErrSierraModificada)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Reversal restores each sierra's stored activo flag, resets its estado to
// Disponible, then drops the join rows and the header.
func TestBajaDelete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE sierras s").
		WithArgs(4, models.EstadoDisponible).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	mock.ExpectExec("DELETE FROM baja_masiva_sierras").
		WithArgs(4).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec("DELETE FROM bajas_masivas").
		WithArgs(4).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	repo := &BajaMasivaRepository{DB: mock}
	require.NoError(t, repo.Delete(context.Background(), 4))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBajaDeleteNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE sierras s").
		WithArgs(99, models.EstadoDisponible).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec("DELETE FROM baja_masiva_sierras").
		WithArgs(99).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("DELETE FROM bajas_masivas").
		WithArgs(99).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	repo := &BajaMasivaRepository{DB: mock}
	err = repo.Delete(context.Background(), 99)

	assert.ErrorIs(t, err, ErrBajaMasivaNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
