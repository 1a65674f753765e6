// Package pdf genera el reporte PDF del censo de inscripción biométrica.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la plataforma │ Fecha de generación       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: total / inscritos / reservados / tasa              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: ID Bio | Nombre | Email | Rol | Estado | Inscrito el │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/beacon-api/internal/application/dto"
	"github.com/jhoicas/beacon-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// RosterGenerator genera el reporte de cobertura de inscripción en PDF.
type RosterGenerator struct{}

// NewRosterGenerator construye el generador.
func NewRosterGenerator() *RosterGenerator { return &RosterGenerator{} }

// GenerateEnrollmentRoster genera el PDF con el resumen del dashboard y una
// fila por empleado, y devuelve sus bytes.
func (g *RosterGenerator) GenerateEnrollmentRoster(summary *dto.DashboardDTO, employees []*dto.EmployeeResponse, generatedAt string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Censo de inscripción biométrica", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(summary))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableRows(employees) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(generatedAt string) core.Row {
	return row.New(14).Add(
		col.New(7).Add(
			text.New("BEACON — Control de asistencia", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Censo de inscripción biométrica", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Generado: "+generatedAt, props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func summaryRow(s *dto.DashboardDTO) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf(
				"Empleados: %d   |   Inscritos: %d   |   ID reservado: %d   |   Sin asignar: %d   |   Cobertura: %s%%",
				s.TotalEmployees, s.Enrolled, s.Reserved, s.Unassigned, s.EnrollmentRate.StringFixed(2),
			), props.Text{Size: 9, Top: 2}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("ID Bio", 1, align.Center),
		h("Nombre", 3, align.Left),
		h("Email", 3, align.Left),
		h("Rol", 1, align.Center),
		h("Estado", 2, align.Center),
		h("Inscrito el", 2, align.Right),
	)
}

func tableRows(employees []*dto.EmployeeResponse) []core.Row {
	result := make([]core.Row, 0, len(employees))
	for _, e := range employees {
		bioID := "—"
		if e.BiometricID != nil {
			bioID = fmt.Sprintf("%d", *e.BiometricID)
		}
		enrolledAt := "—"
		if e.EnrolledAt != nil {
			enrolledAt = e.EnrolledAt.Format("02/01/2006")
		}
		result = append(result, row.New(6).Add(
			col.New(1).Add(text.New(bioID, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(e.Name, props.Text{Size: 8, Top: 1})),
			col.New(3).Add(text.New(e.Email, props.Text{Size: 8, Top: 1, Color: colorGray})),
			col.New(1).Add(text.New(e.Role, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(stateLabel(e.EnrollmentState), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(enrolledAt, props.Text{Size: 8, Align: align.Right, Top: 1, Color: colorGray})),
		))
	}
	return result
}

func stateLabel(state string) string {
	switch state {
	case entity.EnrollmentEnrolled:
		return "Inscrito"
	case entity.EnrollmentReserved:
		return "ID reservado"
	default:
		return "Sin asignar"
	}
}
