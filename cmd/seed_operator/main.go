// seed_operator da de alta una cuenta de operador del caixa en la tabla operadores
// (proveedor de autenticación "database").
//
// Uso: go run ./cmd/seed_operator <email> <password> <admin|operador> [nombre]
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ldtnet/pdv-api/internal/domain/entity"
	"github.com/ldtnet/pdv-api/internal/infrastructure/postgres"
	"github.com/ldtnet/pdv-api/pkg/config"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Fprintln(os.Stderr, "uso: seed_operator <email> <password> <admin|operador> [nombre]")
		os.Exit(2)
	}
	email := strings.ToLower(strings.TrimSpace(os.Args[1]))
	password := os.Args[2]
	role := os.Args[3]
	name := ""
	if len(os.Args) > 4 {
		name = strings.Join(os.Args[4:], " ")
	}
	if !entity.ValidRole(role) {
		fmt.Fprintf(os.Stderr, "Rol inválido %q (admin|operador)\n", role)
		os.Exit(2)
	}
	if len(password) < 6 {
		fmt.Fprintln(os.Stderr, "La contraseña debe tener al menos 6 caracteres")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Hash de contraseña: %v\n", err)
		os.Exit(1)
	}
	acc := &entity.OperatorAccount{
		Operator:     entity.Operator{ID: uuid.New().String(), Email: email, Name: name, Role: role},
		PasswordHash: string(hash),
		Active:       true,
		CreatedAt:    time.Now(),
	}
	if err := postgres.NewOperatorRepository(pool).Create(ctx, acc); err != nil {
		fmt.Fprintf(os.Stderr, "Crear operador: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Operador %s (%s) creado con id %s\n", email, role, acc.ID)
}
