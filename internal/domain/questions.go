package domain

// DefaultQuizID identifies the compiled-in question set.
const DefaultQuizID = "hunter-x-hunter"

// DefaultQuiz returns the compiled-in Hunter x Hunter question set.
func DefaultQuiz() Quiz {
	return Quiz{
		ID: DefaultQuizID,
		Questions: []Question{
			{
				ID:                 1,
				Text:               "¿Cuál es la habilidad Nen de Gon Freecss?",
				Options:            []string{"Jajanken", "Chain Jail", "Bungee Gum", "Emperor Time"},
				CorrectOptionIndex: 0,
				ImageRef:           "gon.jpg",
			},
			{
				ID:                 2,
				Text:               "¿Quién es el presidente de la Asociación de Cazadores al inicio de la serie?",
				Options:            []string{"Netero", "Pariston Hill", "Cheadle Yorkshire", "Ging Freecss"},
				CorrectOptionIndex: 0,
				ImageRef:           "netero.jpg",
			},
			{
				ID:                 3,
				Text:               "¿Cuál de estos personajes pertenece a la Brigada Fantasma?",
				Options:            []string{"Leorio", "Feitan", "Morel", "Palm"},
				CorrectOptionIndex: 1,
				ImageRef:           "phantom.jpg",
			},
			{
				ID:                 4,
				Text:               "¿Qué tipo de Nen utiliza Kurapika para su cadena del juicio?",
				Options:            []string{"Emisión", "Manipulación", "Materialización", "Especialización"},
				CorrectOptionIndex: 2,
				ImageRef:           "kurapika.jpg",
			},
			{
				ID:                 5,
				Text:               "¿Cuál es el nombre de la isla donde se realiza el examen final de Cazador?",
				Options:            []string{"Isla Ballena", "Isla Greed", "Isla Zevil", "Ciudad de York"},
				CorrectOptionIndex: 2,
				ImageRef:           "island.jpg",
			},
		},
	}
}
