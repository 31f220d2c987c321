package seeds

var genres = []struct {
	ID   int64
	Name string
}{
	{28, "Action"},
	{18, "Drama"},
	{35, "Comedy"},
	{53, "Thriller"},
	{878, "Science Fiction"},
}

type seedMovie struct {
	Title    string
	Overview string
}

// Movies per genre id, in insertion order.
var moviesByGenre = map[int64][]seedMovie{
	28: {
		{"Die Hard", "A New York cop fights armed robbers who take over a Los Angeles skyscraper on Christmas Eve."},
		{"Mad Max: Fury Road", "A drifter and a rebel warrior flee a desert tyrant across a post-apocalyptic wasteland."},
		{"John Wick", "A retired hitman hunts the gangsters who stole his car and killed his dog."},
		{"The Dark Knight", "Batman faces the Joker, a criminal mastermind who plunges Gotham into anarchy."},
		{"Gladiator", "A betrayed Roman general becomes a gladiator and seeks revenge against a corrupt emperor."},
		{"Top Gun: Maverick", "A veteran fighter pilot trains young aviators for a dangerous high altitude mission."},
		{"The Raid", "A police squad fights floor by floor through a tower block run by a ruthless drug lord."},
		{"Mission: Impossible", "A spy framed for betrayal must expose the real mole inside his agency."},
		{"Casino Royale", "James Bond earns his licence to kill and plays a high stakes poker game against a terrorist banker."},
		{"The Avengers", "Earth's mightiest heroes unite to stop an alien invasion of New York."},
	},
	18: {
		{"The Shawshank Redemption", "A banker imprisoned for murder forms a lasting friendship and plans his quiet escape."},
		{"Forrest Gump", "A kind man with a low IQ drifts through decades of American history."},
		{"The Godfather", "The aging patriarch of a crime family hands control of his empire to his reluctant son."},
		{"Schindler's List", "A German industrialist saves more than a thousand Jewish refugees during the Holocaust."},
		{"A Beautiful Mind", "A brilliant mathematician struggles with schizophrenia while reshaping game theory."},
		{"12 Angry Men", "A lone juror urges eleven others to reconsider the evidence in a murder trial."},
		{"Parasite", "A poor family schemes its way into the household of a wealthy family."},
		{"Moonlight", "A young man comes of age in Miami while wrestling with identity and love."},
		{"Whiplash", "An ambitious jazz drummer is pushed to the edge by an abusive music teacher."},
		{"The Green Mile", "A death row guard discovers that a gentle inmate has a miraculous gift."},
	},
	35: {
		{"Superbad", "Two high school friends try to score alcohol for a party before graduation."},
		{"The Hangover", "Three friends wake up in Las Vegas with no memory of the night and a missing groom."},
		{"Bridesmaids", "A maid of honor's life unravels as she competes with a rival bridesmaid."},
		{"Step Brothers", "Two spoiled middle aged men become rivals when their parents marry."},
		{"Anchorman", "A vain San Diego news anchor is threatened by an ambitious female reporter."},
		{"Mean Girls", "A new student navigates the cruel social hierarchy of an American high school."},
		{"Borat", "A Kazakh journalist travels across America filming a documentary."},
		{"Hot Fuzz", "A top London police officer is reassigned to a sleepy village hiding dark secrets."},
		{"Groundhog Day", "A cynical weatherman relives the same day over and over again."},
		{"The Grand Budapest Hotel", "A legendary concierge and his lobby boy are framed for the theft of a painting."},
	},
	53: {
		{"Se7en", "Two detectives hunt a serial killer who models his murders on the seven deadly sins."},
		{"Gone Girl", "A husband becomes the prime suspect when his wife disappears on their anniversary."},
		{"Zodiac", "A cartoonist becomes obsessed with unmasking the Zodiac killer in San Francisco."},
		{"Prisoners", "A desperate father takes the law into his own hands after his daughter is kidnapped."},
		{"Sicario", "An FBI agent joins a covert task force fighting a drug cartel at the Mexican border."},
		{"No Country for Old Men", "A hunter stumbles upon drug money and is pursued by a relentless killer."},
		{"Nightcrawler", "A driven loner films violent crime scenes in Los Angeles for television news."},
		{"Shutter Island", "A US marshal investigates a disappearance at an island hospital for the criminally insane."},
		{"The Silence of the Lambs", "An FBI trainee seeks the help of an imprisoned cannibal to catch a serial killer."},
		{"Oldboy", "A man imprisoned for fifteen years without explanation searches for his captor."},
	},
	878: {
		{"Blade Runner 2049", "A replicant blade runner uncovers a secret that could plunge society into chaos."},
		{"Interstellar", "Explorers travel through a wormhole in space to find a new home for humanity."},
		{"The Matrix", "A hacker learns that reality is a simulation controlled by machines."},
		{"Arrival", "A linguist races to communicate with alien visitors before global war breaks out."},
		{"Dune", "A noble heir leads a rebellion on a desert planet that produces the most valuable spice."},
		{"Ex Machina", "A programmer evaluates the consciousness of a humanoid robot with artificial intelligence."},
		{"Alien", "The crew of a space freighter is hunted by a deadly extraterrestrial creature."},
		{"Inception", "A thief who steals secrets through dreams is tasked with planting an idea."},
		{"Edge of Tomorrow", "A soldier caught in a time loop relives the same battle against alien invaders."},
		{"2001: A Space Odyssey", "Astronauts on a mission to Jupiter confront a rogue onboard computer."},
	},
}

var firstNames = []string{
	"Alex", "Jordan", "Taylor", "Morgan", "Casey", "Riley", "Jamie", "Avery", "Quinn", "Reese",
}

var lastNames = []string{
	"Carter", "Nguyen", "Okafor", "Silva", "Larsen", "Moreau", "Tanaka", "Kowalski", "Haddad", "Brennan",
}
