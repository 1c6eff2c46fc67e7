package models

import (
	"fmt"
	"path"
	"strings"
)

// ManifestEntry binds a logical source to the file it is read from.
type ManifestEntry struct {
	Source SourceKey
	File   string
}

// Manifest is the fixed list of resources a run reads, in load order.
type Manifest struct {
	Entries []ManifestEntry
}

// DefaultManifest names the exports of the 2025-09-23..2025-10-22 window.
var DefaultManifest = Manifest{Entries: []ManifestEntry{
	{Campanhas, "Campanhas(2025.09.23-2025.10.22).csv"},
	{Dispositivos, "Dispositivos(2025.09.23-2025.10.22).csv"},
	{Dia, "Dia_e_hora(Dia_2025.09.23-2025.10.22).csv"},
	{DiaHora, "Dia_e_hora(Dia_Hora_2025.09.23-2025.10.22).csv"},
	{Hora, "Dia_e_hora(Hora_2025.09.23-2025.10.22).csv"},
	{Idade, "Informações_demográficas(Idade_2025.09.23-2025.10.22).csv"},
	{Sexo, "Informações_demográficas(Sexo_2025.09.23-2025.10.22).csv"},
	{SexoIdade, "Informações_demográficas(Sexo_Idade_2025.09.23-2025.10.22).csv"},
	{Alteracoes, "Maiores_alterações(2025.09.23-2025.10.22_em_comparação_com_2025.08.24-2025.09.22).csv"},
	{PalavrasChave, "Palavras-chave_de_pesquisa(2025.09.23-2025.10.22).csv"},
}}

// File returns the file identifier registered for key.
func (m Manifest) File(key SourceKey) (string, bool) {
	for _, e := range m.Entries {
		if e.Source == key {
			return e.File, true
		}
	}
	return "", false
}

// WithExtension returns a copy of the manifest whose files keep their base names but use ext
// (".csv" or ".xls"). m is left untouched.
func (m Manifest) WithExtension(ext string) (Manifest, error) {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if ext != ".csv" && ext != ".xls" {
		return Manifest{}, fmt.Errorf("unsupported source format: %s", ext)
	}

	out := Manifest{Entries: make([]ManifestEntry, len(m.Entries))}
	for i, e := range m.Entries {
		base := strings.TrimSuffix(e.File, path.Ext(e.File))
		out.Entries[i] = ManifestEntry{Source: e.Source, File: base + ext}
	}
	return out, nil
}
