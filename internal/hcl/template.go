package hcl

import (
	"io"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/flowbench/internal/config"
	"github.com/zclconf/go-cty/cty"
)

// WriteTemplate renders m as an HCL configuration file that Loader reads
// back into an equal model.
func WriteTemplate(w io.Writer, m *config.Model) error {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	body.AppendUnstructuredTokens(hclwrite.Tokens{
		{Type: hclsyntax.TokenComment, Bytes: []byte("# flowbench run configuration.\n")},
	})
	body.SetAttributeValue("instance_count", cty.NumberIntVal(int64(m.InstanceCount)))
	body.SetAttributeValue("vertex_count", cty.NumberIntVal(int64(m.VertexCount)))
	body.SetAttributeValue("output_directory", cty.StringVal(m.OutputDirectory))
	body.SetAttributeValue("tests_dir", cty.StringVal(m.TestsDir))
	body.SetAttributeValue("results_dir", cty.StringVal(m.ResultsDir))
	if m.Seed != nil {
		body.SetAttributeValue("seed", cty.NumberUIntVal(*m.Seed))
	}
	if m.Timeout > 0 {
		body.SetAttributeValue("timeout", cty.StringVal(m.Timeout.String()))
	}
	body.SetAttributeValue("exit_policy", cty.StringVal(string(m.ExitPolicy)))
	body.SetAttributeValue("record_format", cty.StringVal(string(m.RecordFormat)))

	body.AppendNewline()
	capacity := body.AppendNewBlock("capacity", nil).Body()
	capacity.SetAttributeValue("min", cty.NumberIntVal(int64(m.MinCapacity)))
	capacity.SetAttributeValue("max", cty.NumberIntVal(int64(m.MaxCapacity)))

	for _, s := range m.Solvers {
		body.AppendNewline()
		sb := body.AppendNewBlock("solver", []string{s.Name}).Body()
		sb.SetAttributeValue("executable", cty.StringVal(s.Executable))
		if len(s.Args) > 0 {
			args := make([]cty.Value, len(s.Args))
			for i, a := range s.Args {
				args[i] = cty.StringVal(a)
			}
			sb.SetAttributeValue("args", cty.ListVal(args))
		}
		if len(s.Env) > 0 {
			env := make(map[string]cty.Value, len(s.Env))
			for k, v := range s.Env {
				env[k] = cty.StringVal(v)
			}
			sb.SetAttributeValue("env", cty.MapVal(env))
		}
		if s.Timeout > 0 {
			sb.SetAttributeValue("timeout", cty.StringVal(s.Timeout.String()))
		}
	}

	_, err := f.WriteTo(w)
	return err
}
