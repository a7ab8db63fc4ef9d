package resolve

// Static lookup tables for the synonym and override resolution levels.
// Keys are normalized names, values are exact canonical names from the
// reference table.

var synonymTable = map[string]string{
	"pomodori":                           "Pomodoro",
	"pomodoro fresco":                    "Pomodoro",
	"pomodori freschi":                   "Pomodoro",
	"pomodoro a cubetti":                 "Pomodoro",
	"pomodori a cubetti":                 "Pomodoro",
	"peperone":                           "Peperoni",
	"pecorino grattugiato":               "Pecorino",
	"pecorino romano grattugiato":        "Pecorino",
	"pancetta a cubetti":                 "Pancetta",
	"cetrioli":                           "Cetriolo",
	"cetriolo a cubetti":                 "Cetriolo",
	"cetrioli a cubetti":                 "Cetriolo",
	"feta a cubetti":                     "Feta",
	"mandorle a scaglie":                 "Mandorle",
	"mandorle a lamelle":                 "Mandorle",
	"mandorle a fette":                   "Mandorle",
	"mandorle tritate":                   "Mandorle",
	"tagliolini":                         "Tagliatelle",
	"tagliolini freschi":                 "Tagliatelle",
	"rucola fresca":                      "Rucola",
	"rughetta":                           "Rucola",
	"cipolla rossa":                      "Cipolla",
	"zucchina":                           "Zucchine",
	"zucchini":                           "Zucchine",
	"mirtilli rossi":                     "Mirtilli",
	"prezzemolo fresco":                  "Prezzemolo",
	"coriandolo fresco":                  "Coriandolo",
	"origano fresco":                     "Origano",
	"origano secco":                      "Origano",
	"zenzero fresco":                     "Zenzero",
	"zenzero fresco grattugiato":         "Zenzero",
	"limoni":                             "Limone",
	"lime":                               "Limone",
	"scorza di limone":                   "Limone",
	"scorza di limone grattugiata":       "Limone",
	"lievi scorze di limone grattugiate": "Limone",
	"uvetta sultanina":                   "Uvetta",
	"vino bianco secco":                  "Vino bianco",
	"parmigiano":                         "Parmigiano Reggiano",
	"parmigiano grattugiato":             "Parmigiano Reggiano",
	"formaggio parmigiano":               "Parmigiano Reggiano",
	"basilico fresco":                    "Basilico",
	"menta fresca":                       "Menta",
	"foglie di menta":                    "Menta",
	"gambero":                            "Gamberi",
	"gamberetto":                         "Gamberi",
	"gamberetti":                         "Gamberi",
	"melanzana":                          "Melanzane",
	"cuscus":                             "Couscous",
	"polipo":                             "Polpo",
	"champignon":                         "Funghi",
	"funghi champignon":                  "Funghi",
}

// Last-resort mapping for terms the earlier levels are known to miss;
// matches from here carry a fixed low confidence.
var overrideTable = map[string]string{
	"pepe":              "Pepe nero",
	"pasta":             "Spaghetti",
	"riso":              "Riso basmati",
	"formaggio":         "Parmigiano Reggiano",
	"zucchero di canna": "Zucchero",
	"farina 00":         "Farina",
	"brodo vegetale":    "Brodo",
	"olio extravergine": "Olio di oliva",
	"olio evo":          "Olio di oliva",
}
