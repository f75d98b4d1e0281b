package locale

// Key identifies a translatable label.
type Key string

const (
	KeyJournalTitle      Key = "journal.title"
	KeyBalanceTotal      Key = "balance.total"
	KeyEmptyTitle        Key = "empty.title"
	KeyEmptyDescription  Key = "empty.description"
	KeyToday             Key = "day.today"
	KeyYesterday         Key = "day.yesterday"
	KeyOutcomeWin        Key = "outcome.win"
	KeyOutcomeLoss       Key = "outcome.loss"
	KeyStake             Key = "entry.stake"
	KeyOdds              Key = "entry.odds"
	KeyWinAmount         Key = "entry.win_amount"
	KeyGrossWin          Key = "entry.gross_win"
	KeyNetProfit         Key = "entry.net_profit"
	KeyPotentialWin      Key = "entry.potential_win"
	KeyLoss              Key = "entry.loss"
	KeyNote              Key = "entry.note"
	KeyDate              Key = "entry.date"
	KeyNewEntry          Key = "entry.new"
	KeyEditEntry         Key = "entry.edit"
	KeyDeleteEntry       Key = "entry.delete"
	KeyEntryCreated      Key = "entry.created"
	KeyEntryUpdated      Key = "entry.updated"
	KeyEntriesDeleted    Key = "entry.deleted"
	KeyStatsTotalStake   Key = "stats.total_stake"
	KeyStatsTotalWinning Key = "stats.total_winnings"
	KeyStatsEntries      Key = "stats.entries"
	KeySettingsLanguage  Key = "settings.language"
	KeySettingsCurrency  Key = "settings.currency"
	KeySettingsName      Key = "settings.display_name"
	KeyWelcome           Key = "settings.welcome"
	KeyAskName           Key = "settings.ask_name"
)

var catalog = map[Language]map[Key]string{
	Polish: {
		KeyJournalTitle:      "Dziennik",
		KeyBalanceTotal:      "Bilans całkowity",
		KeyEmptyTitle:        "Brak kuponów",
		KeyEmptyDescription:  "Dodaj swój pierwszy kupon, aby śledzić bilans.",
		KeyToday:             "Dzisiaj",
		KeyYesterday:         "Wczoraj",
		KeyOutcomeWin:        "Wygrana",
		KeyOutcomeLoss:       "Przegrana",
		KeyStake:             "Stawka",
		KeyOdds:              "Kurs",
		KeyWinAmount:         "Wygrana",
		KeyGrossWin:          "Wygrana brutto",
		KeyNetProfit:         "Zysk netto",
		KeyPotentialWin:      "Potencjalna wygrana",
		KeyLoss:              "Strata",
		KeyNote:              "Notatka",
		KeyDate:              "Data",
		KeyNewEntry:          "Nowy kupon",
		KeyEditEntry:         "Edytuj kupon",
		KeyDeleteEntry:       "Usuń kupon",
		KeyEntryCreated:      "Dodano kupon",
		KeyEntryUpdated:      "Zapisano kupon",
		KeyEntriesDeleted:    "Usunięto kupony",
		KeyStatsTotalStake:   "Łączna stawka",
		KeyStatsTotalWinning: "Łączne wygrane",
		KeyStatsEntries:      "Liczba kuponów",
		KeySettingsLanguage:  "Język",
		KeySettingsCurrency:  "Waluta",
		KeySettingsName:      "Nazwa wyświetlana",
		KeyWelcome:           "Witaj",
		KeyAskName:           "Podaj swoją nazwę (-name), aby rozpocząć.",
	},
	English: {
		KeyJournalTitle:      "Journal",
		KeyBalanceTotal:      "Total balance",
		KeyEmptyTitle:        "No slips",
		KeyEmptyDescription:  "Add your first slip to start tracking your balance.",
		KeyToday:             "Today",
		KeyYesterday:         "Yesterday",
		KeyOutcomeWin:        "Win",
		KeyOutcomeLoss:       "Loss",
		KeyStake:             "Stake",
		KeyOdds:              "Odds",
		KeyWinAmount:         "Winnings",
		KeyGrossWin:          "Gross winnings",
		KeyNetProfit:         "Net profit",
		KeyPotentialWin:      "Potential winnings",
		KeyLoss:              "Loss",
		KeyNote:              "Note",
		KeyDate:              "Date",
		KeyNewEntry:          "New slip",
		KeyEditEntry:         "Edit slip",
		KeyDeleteEntry:       "Delete slip",
		KeyEntryCreated:      "Slip added",
		KeyEntryUpdated:      "Slip saved",
		KeyEntriesDeleted:    "Slips deleted",
		KeyStatsTotalStake:   "Total staked",
		KeyStatsTotalWinning: "Total winnings",
		KeyStatsEntries:      "Slips",
		KeySettingsLanguage:  "Language",
		KeySettingsCurrency:  "Currency",
		KeySettingsName:      "Display name",
		KeyWelcome:           "Welcome",
		KeyAskName:           "Tell us your name (-name) to get started.",
	},
}

// Translate returns the label for key in lang. Unknown keys and languages
// fall back to the key itself.
func Translate(key Key, lang Language) string {
	if labels, ok := catalog[lang]; ok {
		if s, ok := labels[key]; ok {
			return s
		}
	}
	return string(key)
}

// Keys returns every key defined for lang.
func Keys(lang Language) []Key {
	labels := catalog[lang]
	keys := make([]Key, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	return keys
}
