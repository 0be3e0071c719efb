package console

const msgWelcome = `Wolfpedia - wolf encyclopedia. Type "help" to see the commands.`

const msgHelp = `Commands:
  species [region] [query]  list species, optionally by region and name
  show <id>                 show a species card
  fav <id>                  add or remove a species from favorites
  favs                      list favorite species
  gallery [category]        list gallery categories or cards of one category
  quiz                      show the current quiz question
  answer <letter|number>    answer the current question (A-F or 1-6)
  next                      go to the next question
  reset                     start the quiz again
  results                   show results of the completed quiz
  export <file>             save results of the completed quiz as CSV
  achievements              list achievements
  avatars                   list avatars
  avatar <id>               select an avatar
  name <new name>           change your name
  stats                     show your statistics
  share                     show a message to share with friends
  help                      show this help
  quit                      exit`

const msgUnknownCommand = `Unknown command. Type "help" to see the commands.`

const msgUnknownSpecies = `Species not found.`

const msgNothingFound = `Nothing found.`

const msgNoFavorites = `You have no favorite species yet.`

const msgFavoriteAdded = `Added to favorites.`

const msgFavoriteRemoved = `Removed from favorites.`

const msgNoQuestions = `The quiz has no questions.`

const msgQuizCompleted = `The quiz is completed. Type "results" to see the results or "reset" to start again.`

const msgAlreadyAnswered = `You have already answered, only the first answer counts.`

const msgNotAnswered = `Answer the current question first.`

const msgQuizNotCompleted = `Finish the quiz first.`

const msgQuizReset = `The quiz is started again.`

const msgCorrect = `Correct!`

const msgIncorrect = `Incorrect.`

const msgUsage = `Usage: `

const msgExported = `Results saved to `

const msgAvatarSelected = `Avatar selected.`

const msgNameChanged = `Name changed.`

const msgBye = `Bye!`
