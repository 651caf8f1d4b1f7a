package mockapi

import "user-console/internal/domain/user"

// SeedUsers are the ten records the users API starts with.
func SeedUsers() []user.User {
	return []user.User{
		{ID: 1, Name: "Leanne Graham", Username: "Bret", Email: "Sincere@april.biz", Phone: "1-770-736-8031 x56442", Website: "hildegard.org",
			Address: user.Address{Street: "Kulas Light", Suite: "Apt. 556", City: "Gwenborough", Zipcode: "92998-3874"}, Company: user.Company{Name: "Romaguera-Crona"}},
		{ID: 2, Name: "Ervin Howell", Username: "Antonette", Email: "Shanna@melissa.tv", Phone: "010-692-6593 x09125", Website: "anastasia.net",
			Address: user.Address{Street: "Victor Plains", Suite: "Suite 879", City: "Wisokyburgh", Zipcode: "90566-7771"}, Company: user.Company{Name: "Deckow-Crist"}},
		{ID: 3, Name: "Clementine Bauch", Username: "Samantha", Email: "Nathan@yesenia.net", Phone: "1-463-123-4447", Website: "ramiro.info",
			Address: user.Address{Street: "Douglas Extension", Suite: "Suite 847", City: "McKenziehaven", Zipcode: "59590-4157"}, Company: user.Company{Name: "Romaguera-Jacobson"}},
		{ID: 4, Name: "Patricia Lebsack", Username: "Karianne", Email: "Julianne.OConner@kory.org", Phone: "493-170-9623 x156", Website: "kale.biz",
			Address: user.Address{Street: "Hoeger Mall", Suite: "Apt. 692", City: "South Elvis", Zipcode: "53919-4257"}, Company: user.Company{Name: "Robel-Corkery"}},
		{ID: 5, Name: "Chelsey Dietrich", Username: "Kamren", Email: "Lucio_Hettinger@annie.ca", Phone: "(254)954-1289", Website: "demarco.info",
			Address: user.Address{Street: "Skiles Walks", Suite: "Suite 351", City: "Roscoeview", Zipcode: "33263"}, Company: user.Company{Name: "Keebler LLC"}},
		{ID: 6, Name: "Mrs. Dennis Schulist", Username: "Leopoldo_Corkery", Email: "Karley_Dach@jasper.info", Phone: "1-477-935-8478 x6430", Website: "ola.org",
			Address: user.Address{Street: "Norberto Crossing", Suite: "Apt. 950", City: "South Christy", Zipcode: "23505-1337"}, Company: user.Company{Name: "Considine-Lockman"}},
		{ID: 7, Name: "Kurtis Weissnat", Username: "Elwyn.Skiles", Email: "Telly.Hoeger@billy.biz", Phone: "210.067.6132", Website: "elvis.io",
			Address: user.Address{Street: "Rex Trail", Suite: "Suite 280", City: "Howemouth", Zipcode: "58804-1099"}, Company: user.Company{Name: "Johns Group"}},
		{ID: 8, Name: "Nicholas Runolfsdottir V", Username: "Maxime_Nienow", Email: "Sherwood@rosamond.me", Phone: "586.493.6943 x140", Website: "jacynthe.com",
			Address: user.Address{Street: "Ellsworth Summit", Suite: "Suite 729", City: "Aliyaview", Zipcode: "45169"}, Company: user.Company{Name: "Abernathy Group"}},
		{ID: 9, Name: "Glenna Reichert", Username: "Delphine", Email: "Chaim_McDermott@dana.io", Phone: "(775)976-6794 x41206", Website: "conrad.com",
			Address: user.Address{Street: "Dayna Park", Suite: "Suite 449", City: "Bartholomebury", Zipcode: "76495-3109"}, Company: user.Company{Name: "Yost and Sons"}},
		{ID: 10, Name: "Clementina DuBuque", Username: "Moriah.Stanton", Email: "Rey.Padberg@karina.biz", Phone: "024-648-3804", Website: "ambrose.net",
			Address: user.Address{Street: "Kattie Turnpike", Suite: "Suite 198", City: "Lebsackbury", Zipcode: "31428-2261"}, Company: user.Company{Name: "Hoeger LLC"}},
	}
}
