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

func newSalida(fecha time.Time) *models.SalidaMasiva {
	return &models.SalidaMasiva{
		SucursalID:    3,
		FechaSalida:   fecha,
		Observaciones: "lote de la mañana",
		UsuarioID:     5,
	}
}

// A sierra with two pending records in the same batch gets stamped twice
// but transitioned to Disponible exactly once.
func TestSalidaCreateTwoAfiladosSameSierra(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	fecha := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	salida := newSalida(fecha)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO salidas_masivas").
		WithArgs(3, fecha, "lote de la mañana", 5).
		WillReturnRows(pgxmock.NewRows([]string{"id", "creado_en"}).AddRow(7, time.Now()))

	for _, afiladoID := range []int{10, 11} {
		mock.ExpectExec("INSERT INTO salida_masiva_afilados").
			WithArgs(7, afiladoID).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec("UPDATE afilados").
			WithArgs(fecha, afiladoID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	}

	mock.ExpectQuery("SELECT DISTINCT sierra_id FROM afilados").
		WithArgs([]int{10, 11}).
		WillReturnRows(pgxmock.NewRows([]string{"sierra_id"}).AddRow(1))
	mock.ExpectExec("UPDATE sierras").
		WithArgs(models.EstadoDisponible, 1, models.EstadoEnAfilado, models.EstadoListaParaRetiro).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	repo := &SalidaMasivaRepository{DB: mock}
	err = repo.Create(context.Background(), salida, []int{10, 11})

	require.NoError(t, err)
	assert.Equal(t, 7, salida.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSalidaCreateTwoSierras(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	fecha := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	salida := newSalida(fecha)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO salidas_masivas").
		WithArgs(3, fecha, "lote de la mañana", 5).
		WillReturnRows(pgxmock.NewRows([]string{"id", "creado_en"}).AddRow(8, time.Now()))

	for _, afiladoID := range []int{20, 21} {
		mock.ExpectExec("INSERT INTO salida_masiva_afilados").
			WithArgs(8, afiladoID).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec("UPDATE afilados").
			WithArgs(fecha, afiladoID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	}

	mock.ExpectQuery("SELECT DISTINCT sierra_id FROM afilados").
		WithArgs([]int{20, 21}).
		WillReturnRows(pgxmock.NewRows([]string{"sierra_id"}).AddRow(1).AddRow(2))
	for _, sierraID := range []int{1, 2} {
		mock.ExpectExec("UPDATE sierras").
			WithArgs(models.EstadoDisponible, sierraID, models.EstadoEnAfilado, models.EstadoListaParaRetiro).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	}
	mock.ExpectCommit()

	repo := &SalidaMasivaRepository{DB: mock}
	err = repo.Create(context.Background(), salida, []int{20, 21})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A record closed between validation and commit misses the stamping guard
// and rolls the whole batch back.
func TestSalidaCreateStaleAfiladoRollsBack(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	fecha := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	salida := newSalida(fecha)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO salidas_masivas").
		WithArgs(3, fecha, "lote de la mañana", 5).
		WillReturnRows(pgxmock.NewRows([]string{"id", "creado_en"}).AddRow(9, time.Now()))
	mock.ExpectExec("INSERT INTO salida_masiva_afilados").
		WithArgs(9, 10).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE afilados").
		WithArgs(fecha, 10).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	repo := &SalidaMasivaRepository{DB: mock}
	err = repo.Create(context.Background(), salida, []int{10, 11})

	assert.ErrorIs(t, err, ErrAfiladoModificado)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A sierra transitioned by someone else misses the state guard and rolls
// the whole batch back.
func TestSalidaCreateSierraConflictRollsBack(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	fecha := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	salida := newSalida(fecha)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO salidas_masivas").
		WithArgs(3, fecha, "lote de la mañana", 5).
		WillReturnRows(pgxmock.NewRows([]string{"id", "creado_en"}).AddRow(10, time.Now()))
	mock.ExpectExec("INSERT INTO salida_masiva_afilados").
		WithArgs(10, 30).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE afilados").
		WithArgs(fecha, 30).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery("SELECT DISTINCT sierra_id FROM afilados").
		WithArgs([]int{30}).
		WillReturnRows(pgxmock.NewRows([]string{"sierra_id"}).AddRow(4))
	mock.ExpectExec("UPDATE sierras").
		WithArgs(models.EstadoDisponible, 4, models.EstadoEnAfilado, models.EstadoListaParaRetiro).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	repo := &SalidaMasivaRepository{DB: mock}
	err = repo.Create(context.Background(), salida, []int{30})

	assert.ErrorIs(t, err, ErrAfiladoModificado)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Reversal clears fecha_salida on the linked records before dropping the
// join rows and the header.
func TestSalidaDelete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE afilados").
		WithArgs(7).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	mock.ExpectExec("DELETE FROM salida_masiva_afilados").
		WithArgs(7).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec("DELETE FROM salidas_masivas").
		WithArgs(7).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	repo := &SalidaMasivaRepository{DB: mock}
	require.NoError(t, repo.Delete(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSalidaDeleteNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE afilados").
		WithArgs(99).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec("DELETE FROM salida_masiva_afilados").
		WithArgs(99).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("DELETE FROM salidas_masivas").
		WithArgs(99).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	repo := &SalidaMasivaRepository{DB: mock}
	err = repo.Delete(context.Background(), 99)

	assert.ErrorIs(t, err, ErrSalidaMasivaNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
