package user

func sampleUsers() []User {
	return []User{
		{ID: 1, Name: "Leanne Graham", Username: "Bret", Email: "Sincere@april.biz", Company: Company{Name: "Romaguera-Crona"}},
		{ID: 2, Name: "Ervin Howell", Username: "Antonette", Email: "Shanna@melissa.tv", Company: Company{Name: "Deckow-Crist"}},
		{ID: 3, Name: "clementine Bauch", Username: "Samantha", Email: "Nathan@yesenia.net", Company: Company{Name: "Romaguera-Jacobson"}},
		{ID: 10, Name: "Zed Nobody", Username: "zed", Email: "zed@example.com"},
	}
}

func ids(users []User) []int64 {
	out := make([]int64, len(users))
	for i, u := range users {
		out[i] = u.ID
	}
	return out
}
