// Command calcular runs the group premium calculation offline from a YAML file.
//
//	calcular grupo grupo.yaml --periodo 03/2024
//	calcular grupo grupo.yaml --json
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"afiliados/internal/calculo"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func main() {
	decimal.MarshalJSONWithoutQuotes = true
	if err := newRootCmd(time.Now).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(now func() time.Time) *cobra.Command {
	root := &cobra.Command{
		Use:           "calcular",
		Short:         "Calculo de cuotas sin base de datos",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(grupoCmd(now))
	return root
}

func grupoCmd(now func() time.Time) *cobra.Command {
	var (
		periodo string
		comoJSON bool
	)
	cmd := &cobra.Command{
		Use:   "grupo [archivo.yaml]",
		Short: "Calcula la cuota de un grupo descripto en YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archivo, err := leerArchivo(args[0])
			if err != nil {
				return err
			}
			if periodo == "" {
				periodo = archivo.Periodo
			}

			corte := now()
			if strings.TrimSpace(periodo) != "" {
				var ok bool
				if corte, ok = calculo.ParsePeriodo(periodo, corte.Location()); !ok {
					return fmt.Errorf("periodo invalido %q, formato MM/YYYY", periodo)
				}
			}

			in, err := archivo.entrada(corte)
			if err != nil {
				return err
			}
			res, err := calculo.Calcular(in)
			if err != nil {
				return err
			}

			if comoJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Period string `json:"period"`
					*calculo.Resultado
				}{calculo.FormatPeriodo(corte), res})
			}
			imprimir(cmd.OutOrStdout(), calculo.FormatPeriodo(corte), in.Plan, res)
			return nil
		},
	}
	cmd.Flags().StringVar(&periodo, "periodo", "", "periodo MM/YYYY (por defecto el del archivo o el mes actual)")
	cmd.Flags().BoolVar(&comoJSON, "json", false, "imprime el resultado completo en JSON")
	return cmd
}

func imprimir(w io.Writer, periodo string, plan calculo.Plan, res *calculo.Resultado) {
	titulo := lipgloss.NewStyle().Bold(true)
	fmt.Fprintln(w, titulo.Render(fmt.Sprintf("Plan %d %s, periodo %s", plan.Codigo, plan.Nombre, periodo)))

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Socio", "Nombre", "Rol", "Edad", "Base", "Recargo", "Subtotal", "Ajuste", "Obs")
	for _, d := range res.Detalle {
		obs := ""
		if d.MotivoNoComputa != nil {
			obs = *d.MotivoNoComputa
		}
		t.Row(
			calculo.FormatNumero(d.Numero),
			d.Nombre,
			string(d.Rol),
			strconv.Itoa(d.Edad),
			d.Base.String(),
			d.Recargo.String(),
			d.Subtotal.String(),
			d.AjustePrepago.String(),
			obs,
		)
	}
	fmt.Fprintln(w, t.String())

	fmt.Fprintf(w, "Subtotal: %s\n", res.SubtotalSinAjuste.String())
	fmt.Fprintf(w, "Ajuste:   %s\n", res.AjustePrepago.String())
	fmt.Fprintln(w, titulo.Render("Total:    "+res.Total.String()))
	for _, a := range res.Advertencias {
		fmt.Fprintln(w, "! "+a)
	}
}
