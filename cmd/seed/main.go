// seed carga ítems iniciales desde un CSV (name,price,quantity) usando las mismas reglas que la API.
//
// Uso: go run ./cmd/seed [ruta/items.csv] [charset]
// Por defecto busca items.csv en la raíz del módulo. charset admite utf-8 (defecto) o iso-8859-1.
// Los nombres que ya existen se omiten, así el seed puede relanzarse.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/store-api/internal/application/dto"
	"github.com/jhoicas/store-api/internal/application/usecase"
	"github.com/jhoicas/store-api/internal/domain"
	"github.com/jhoicas/store-api/internal/infrastructure/postgres"
	"github.com/jhoicas/store-api/pkg/config"
	"github.com/jhoicas/store-api/pkg/logger"
)

func main() {
	csvPath := filepath.Join(findModuleRoot(), "items.csv")
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	charset := "utf-8"
	if len(os.Args) > 2 {
		charset = os.Args[2]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed")

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := readRows(decodeCharset(f, charset))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if cfg.DB.Migrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
			fmt.Fprintf(os.Stderr, "Migraciones: %v\n", err)
			os.Exit(1)
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	uc := usecase.NewItemUseCase(postgres.NewItemRepository(pool))
	var created, skipped int
	for i, in := range rows {
		_, err := uc.Create(ctx, in)
		switch {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrNameConflict):
			skipped++
		default:
			log.Error().Err(err).Int("fila", i+2).Str("name", in.Name).Msg("ítem rechazado")
			skipped++
		}
	}

	fmt.Printf("Seed %s: %d creados, %d omitidos\n", csvPath, created, skipped)
}

// decodeCharset envuelve el lector para CSV exportados en Latin-1 (hojas de cálculo antiguas).
func decodeCharset(r io.Reader, charset string) io.Reader {
	if strings.EqualFold(charset, "ISO-8859-1") || strings.EqualFold(charset, "ISO8859-1") || strings.EqualFold(charset, "latin1") {
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	return r
}

// readRows lee name,price,quantity. La primera fila es la cabecera.
func readRows(r io.Reader) ([]dto.CreateItemRequest, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	out := make([]dto.CreateItemRequest, 0, len(records)-1)
	for i, rec := range records[1:] {
		price, err := decimal.NewFromString(strings.TrimSpace(rec[1]))
		if err != nil {
			return nil, fmt.Errorf("fila %d: precio %q: %w", i+2, rec[1], err)
		}
		qty, err := strconv.Atoi(strings.TrimSpace(rec[2]))
		if err != nil {
			return nil, fmt.Errorf("fila %d: cantidad %q: %w", i+2, rec[2], err)
		}
		out = append(out, dto.CreateItemRequest{Name: strings.TrimSpace(rec[0]), Price: price, Quantity: qty})
	}
	return out, nil
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
