// Package testutil holds a complete, small set of campaign exports for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/yurifrl/adinsights/pkg/models"
)

// Sources is the CSV text of every export, keyed by logical source.
// Currency cells use the non-breaking space Google Ads puts after R$.
var Sources = map[models.SourceKey]string{
	models.Campanhas: "Nome da campanha,Custo,Conversões,Custo / conv.\n" +
		"Pesquisa Marca,\"R$\u00a01.234,56\",\"10,00\",\"R$\u00a0123,46\"\n" +
		"Pesquisa Genérica,\"R$\u00a02.000,00\",\"0,00\",\"R$\u00a00,00\"\n" +
		"Performance Max,\"R$\u00a0500,00\",\"25,00\",\"R$\u00a020,00\"\n",

	models.Dispositivos: "Dispositivo,Custo,Cliques,Conversões\n" +
		"Smartphones,\"R$\u00a03.000,00\",1.500,\"30,00\"\n" +
		"Computadores,\"R$\u00a0700,00\",300,\"5,00\"\n" +
		"Tablets,\"R$\u00a034,56\",20,\"0,00\"\n" +
		"Telas de TV,\"R$\u00a00,00\",0,\"0,00\"\n",

	models.Dia: "Dia,Impressões\n" +
		"Domingo,1.000\n" +
		"Segunda-feira,5.000\n" +
		"Terça-feira,5.000\n" +
		"Quarta-feira,4.000\n" +
		"Quinta-feira,3.500\n" +
		"Sexta-feira,2.000\n" +
		"Sábado,1.200\n",

	models.DiaHora: "Dia,Hora de início,Impressões\n" +
		"Segunda-feira,9,300\n" +
		"Segunda-feira,20,1.200\n" +
		"Terça-feira,9,250\n" +
		"Terça-feira,20,1.100\n" +
		"Domingo,21,400\n",

	models.Hora: "Hora de início,Impressões\n" +
		"21,2.500\n" +
		"8,100\n" +
		"20,2.500\n" +
		"9,300\n",

	models.Idade: "Faixa de idade,Impressões,Porcentagem do total conhecido\n" +
		"18 a 24,1.000,\"10,00%\"\n" +
		"35 a 44,4.000,\"40,00%\"\n" +
		"45 a 54,4.000,\"40,00%\"\n" +
		"Desconhecido,1.000,\n",

	models.Sexo: "Sexo,Impressões,Porcentagem do total conhecido\n" +
		"Masculino,6.000,\"60,00%\"\n" +
		"Feminino,4.000,\"40,00%\"\n",

	models.SexoIdade: "Sexo,Faixa de idade,Impressões\n" +
		"Masculino,35 a 44,2.500\n" +
		"Feminino,35 a 44,1.500\n" +
		"Masculino,18 a 24,600\n",

	models.Alteracoes: "Nome da campanha,Custo,Custo (Comparação),Cliques,Cliques (Comparação),Interações,Interações (Comparação)\n" +
		"Pesquisa Marca,\"R$\u00a01.234,56\",\"R$\u00a01.000,00\",400,200,400,200\n" +
		"Pesquisa Genérica,\"R$\u00a02.000,00\",\"R$\u00a00,00\",300,0,300,0\n" +
		"Performance Max,\"R$\u00a0500,00\",\"R$\u00a01.000,00\",50,10,50,10\n",

	models.PalavrasChave: "Palavra-chave da rede de pesquisa,Custo,Cliques,CTR\n" +
		"bosch furadeira,\"R$\u00a0800,00\",200,\"5,00%\"\n" +
		"furadeira sem fio,\"R$\u00a0450,00\",150,\"7,50%\"\n" +
		"parafusadeira,\"R$\u00a0120,00\",60,\"12,30%\"\n" +
		"martelete,\"R$\u00a00,00\",0,\"0,00%\"\n" +
		"serra mármore,\"R$\u00a060,00\",10,\"2,00%\"\n",
}

// FS returns the exports laid out under their manifest file names.
func FS() fstest.MapFS {
	return FSWith(nil)
}

// FSWith returns FS() with some sources replaced. An empty replacement removes the file.
func FSWith(overrides map[models.SourceKey]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for _, entry := range models.DefaultManifest.Entries {
		content, ok := overrides[entry.Source]
		if !ok {
			content = Sources[entry.Source]
		}
		if content == "" {
			continue
		}
		fsys[entry.File] = &fstest.MapFile{Data: []byte(content), Mode: 0644}
	}
	return fsys
}

// WriteDir writes the exports into dir the way they sit on disk after a download.
func WriteDir(t *testing.T, dir string) {
	t.Helper()
	for _, entry := range models.DefaultManifest.Entries {
		path := filepath.Join(dir, entry.File)
		if err := os.WriteFile(path, []byte(Sources[entry.Source]), 0644); err != nil {
			t.Fatalf("Failed to write fixture %s: %v", entry.File, err)
		}
	}
}
