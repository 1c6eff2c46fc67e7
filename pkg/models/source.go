package models

// SourceKey is the logical name of one of the ten campaign exports.
type SourceKey string

const (
	Campanhas     SourceKey = "Campanhas"
	Dispositivos  SourceKey = "Dispositivos"
	Dia           SourceKey = "Dia"
	DiaHora       SourceKey = "Dia_Hora"
	Hora          SourceKey = "Hora"
	Idade         SourceKey = "Idade"
	Sexo          SourceKey = "Sexo"
	SexoIdade     SourceKey = "Sexo_Idade"
	Alteracoes    SourceKey = "Alteracoes"
	PalavrasChave SourceKey = "Palavras_Chave"
)

// SourceKeys lists every source in load order.
var SourceKeys = []SourceKey{
	Campanhas,
	Dispositivos,
	Dia,
	DiaHora,
	Hora,
	Idade,
	Sexo,
	SexoIdade,
	Alteracoes,
	PalavrasChave,
}

// Column names as they appear in the exported headers.
const (
	ColCampaign          = "Nome da campanha"
	ColCost              = "Custo"
	ColConversions       = "Conversões"
	ColCostPerConversion = "Custo / conv."
	ColDevice            = "Dispositivo"
	ColClicks            = "Cliques"
	ColDay               = "Dia"
	ColHour              = "Hora de início"
	ColImpressions       = "Impressões"
	ColAgeRange          = "Faixa de idade"
	ColSex               = "Sexo"
	ColKnownShare        = "Porcentagem do total conhecido"
	ColCostPrior         = "Custo (Comparação)"
	ColClicksPrior       = "Cliques (Comparação)"
	ColInteractions      = "Interações"
	ColInteractionsPrior = "Interações (Comparação)"
	ColKeyword           = "Palavra-chave da rede de pesquisa"
	ColCTR               = "CTR"
)

// Category values the insights look up by name.
const (
	DeviceSmartphones = "Smartphones"
	SexMale           = "Masculino"
)

// DayOrder is the canonical day-of-week order, Monday first.
var DayOrder = []string{
	"Segunda-feira",
	"Terça-feira",
	"Quarta-feira",
	"Quinta-feira",
	"Sexta-feira",
	"Sábado",
	"Domingo",
}

// DayIndex returns the position of day in DayOrder, or -1.
func DayIndex(day string) int {
	for i, d := range DayOrder {
		if d == day {
			return i
		}
	}
	return -1
}
