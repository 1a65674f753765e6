// seed crea las cuentas iniciales para desarrollo: una cuenta de RRHH y
// varios empleados de prueba. Es idempotente: los correos ya existentes
// se dejan intactos.
//
// Uso: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jhoicas/beacon-api/internal/domain/entity"
	"github.com/jhoicas/beacon-api/internal/infrastructure/postgres"
	"github.com/jhoicas/beacon-api/pkg/config"
	"golang.org/x/crypto/bcrypt"
)

type seedAccount struct {
	email    string
	name     string
	role     string
	password string
}

var accounts = []seedAccount{
	{"hr@test.com", "Recursos Humanos", entity.RoleHR, "password123"},
	{"it@test.com", "Soporte IT", entity.RoleIT, "password123"},
	{"empleado1@test.com", "Juan Pérez", entity.RoleEmployee, "password123"},
	{"empleado2@test.com", "María García", entity.RoleEmployee, "password123"},
	{"empleado3@test.com", "Carlos Rodríguez", entity.RoleEmployee, "password123"},
}

func main() {
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

	created := 0
	for _, acc := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(acc.password), bcrypt.DefaultCost)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Hash de contraseña: %v\n", err)
			os.Exit(1)
		}

		tag, err := pool.Exec(ctx, `
			INSERT INTO employees (id, email, password_hash, name, role)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (email) DO NOTHING`,
			uuid.New().String(), acc.email, string(hash), acc.name, acc.role,
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Insertar %s: %v\n", acc.email, err)
			os.Exit(1)
		}
		if tag.RowsAffected() > 0 {
			created++
			fmt.Printf("Creado %s (%s)\n", acc.email, acc.role)
		} else {
			fmt.Printf("Ya existe %s, sin cambios\n", acc.email)
		}
	}

	fmt.Printf("Listo: %d cuentas nuevas de %d\n", created, len(accounts))
}
