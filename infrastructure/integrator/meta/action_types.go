package meta

import (
	"fmt"
	"os"

	metadomain "github.com/leverads/meta-sync-api/infrastructure/integrator/meta/domain"
	"gopkg.in/yaml.v3"
)

type actionTypesFile struct {
	PurchaseActionTypes []string `yaml:"purchase_action_types"`
}

// LoadPurchaseActionTypes acrescenta aos tipos padrão os aliases do arquivo YAML.
// Caminho vazio devolve apenas os tipos padrão.
func LoadPurchaseActionTypes(path string) (metadomain.ActionPreference, error) {
	if path == "" {
		return metadomain.PurchaseActionTypes, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler arquivo de tipos de ação: %w", err)
	}

	var file actionTypesFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("erro ao decodificar arquivo de tipos de ação: %w", err)
	}

	extra := make([]metadomain.ActionType, 0, len(file.PurchaseActionTypes))
	for _, t := range file.PurchaseActionTypes {
		extra = append(extra, metadomain.ActionType(t))
	}

	return metadomain.PurchaseActionTypes.With(extra...), nil
}
