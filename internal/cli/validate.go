package cli

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/vaultsim/internal/engine"
)

//go:embed vault_params.cue
var vaultParamsSchema string

// ParamsError lists every constraint a VaultParams value violates.
type ParamsError struct {
	Issues []string
}

func (e *ParamsError) Error() string {
	return "invalid vault params: " + strings.Join(e.Issues, "; ")
}

var (
	schemaOnce sync.Once
	schemaCtx  *cue.Context
	schemaDef  cue.Value
	schemaErr  error
)

func vaultParamsDef() (*cue.Context, cue.Value, error) {
	schemaOnce.Do(func() {
		schemaCtx = cuecontext.New()
		v := schemaCtx.CompileString(vaultParamsSchema, cue.Filename("vault_params.cue"))
		if err := v.Err(); err != nil {
			schemaErr = fmt.Errorf("compile vault params schema: %w", err)
			return
		}
		schemaDef = v.LookupPath(cue.ParsePath("#VaultParams"))
		if err := schemaDef.Err(); err != nil {
			schemaErr = fmt.Errorf("lookup #VaultParams: %w", err)
		}
	})
	return schemaCtx, schemaDef, schemaErr
}

// ValidateVaultParams checks params against the embedded #VaultParams
// schema: allocations are whole percents summing to 100, the yield cliff
// falls within the lock period, and apyMin does not exceed apyMax.
//
// Returns *ParamsError for constraint violations.
func ValidateVaultParams(params engine.VaultParams) error {
	ctx, def, err := vaultParamsDef()
	if err != nil {
		return err
	}

	v := ctx.Encode(params)
	if err := v.Err(); err != nil {
		return fmt.Errorf("encode vault params: %w", err)
	}

	if err := def.Unify(v).Validate(cue.Concrete(true)); err != nil {
		var issues []string
		for _, e := range cueerrors.Errors(err) {
			issues = append(issues, strings.TrimPrefix(e.Error(), "#VaultParams."))
		}
		return &ParamsError{Issues: issues}
	}
	return nil
}
