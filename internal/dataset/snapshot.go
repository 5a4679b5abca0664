package dataset

// Default returns a fresh copy of the embedded September 2025 snapshot.
// Callers may mutate the result freely.
func Default() Snapshot {
	return Snapshot{
		Demographics: []Signup{
			{Date: "2025-09-18", Source: "facebook", Users: 35, Male: 4, Female: 27, Unknown: 4, AvgAge: 39.8},
			{Date: "2025-09-18", Source: "instagram", Users: 7, Male: 1, Female: 6, Unknown: 0, AvgAge: 29.1},
			{Date: "2025-09-18", Source: "friends_family", Users: 1, Male: 1, Female: 0, Unknown: 0, AvgAge: 22.0},
			{Date: "2025-09-18", Source: "strava", Users: 1, Male: 0, Female: 0, Unknown: 1, AvgAge: 35.0},
			{Date: "2025-09-18", Source: "tiktok", Users: 1, Male: 0, Female: 1, Unknown: 0, AvgAge: 29.0},
			{Date: "2025-09-19", Source: "facebook", Users: 16, Male: 1, Female: 15, Unknown: 0, AvgAge: 39.4},
			{Date: "2025-09-19", Source: "Unknown", Users: 9, Male: 4, Female: 3, Unknown: 2, AvgAge: 30.3},
			{Date: "2025-09-19", Source: "instagram", Users: 8, Male: 3, Female: 3, Unknown: 2, AvgAge: 27.5},
			{Date: "2025-09-19", Source: "friends_family", Users: 4, Male: 4, Female: 0, Unknown: 0, AvgAge: 22.5},
			{Date: "2025-09-19", Source: "tiktok", Users: 3, Male: 0, Female: 3, Unknown: 0, AvgAge: 27.0},
			{Date: "2025-09-19", Source: "app_store", Users: 2, Male: 1, Female: 1, Unknown: 0, AvgAge: 32.0},
			{Date: "2025-09-19", Source: "youtube", Users: 2, Male: 2, Female: 0, Unknown: 0, AvgAge: 14.0},
		},
		AgeBuckets: []AgeBucket{
			{Date: "2025-09-18", Source: "facebook", Bucket: "18-24", Users: 2},
			{Date: "2025-09-18", Source: "facebook", Bucket: "25-34", Users: 10},
			{Date: "2025-09-18", Source: "facebook", Bucket: "35-44", Users: 14},
			{Date: "2025-09-18", Source: "facebook", Bucket: "45-54", Users: 4},
			{Date: "2025-09-18", Source: "facebook", Bucket: "55+", Users: 5},
			{Date: "2025-09-18", Source: "instagram", Bucket: "18-24", Users: 3},
			{Date: "2025-09-18", Source: "instagram", Bucket: "25-34", Users: 1},
			{Date: "2025-09-18", Source: "instagram", Bucket: "35-44", Users: 3},
			{Date: "2025-09-19", Source: "facebook", Bucket: "18-24", Users: 1},
			{Date: "2025-09-19", Source: "facebook", Bucket: "25-34", Users: 6},
			{Date: "2025-09-19", Source: "facebook", Bucket: "35-44", Users: 3},
			{Date: "2025-09-19", Source: "facebook", Bucket: "45-54", Users: 5},
			{Date: "2025-09-19", Source: "facebook", Bucket: "55+", Users: 1},
			{Date: "2025-09-19", Source: "instagram", Bucket: "Under 18", Users: 1},
			{Date: "2025-09-19", Source: "instagram", Bucket: "18-24", Users: 3},
			{Date: "2025-09-19", Source: "instagram", Bucket: "35-44", Users: 4},
			{Date: "2025-09-19", Source: "Unknown", Bucket: "Under 18", Users: 1},
			{Date: "2025-09-19", Source: "Unknown", Bucket: "18-24", Users: 3},
			{Date: "2025-09-19", Source: "Unknown", Bucket: "25-34", Users: 2},
			{Date: "2025-09-19", Source: "Unknown", Bucket: "35-44", Users: 2},
			{Date: "2025-09-19", Source: "Unknown", Bucket: "55+", Users: 1},
		},
		SignupAuth: []Count{
			{Label: "Apple", Count: 55},
			{Label: "Google", Count: 32},
			{Label: "Email", Count: 2},
		},
		SignupPaidUsers:  0,
		ChallengeJoiners: 0,

		DailySignups: []Signup{
			{Date: "2025-09-25", Source: "app_store", Users: 2},
			{Date: "2025-09-25", Source: "facebook", Users: 1},
			{Date: "2025-09-25", Source: "friends_family", Users: 1},
			{Date: "2025-09-25", Source: "instagram", Users: 9},
			{Date: "2025-09-25", Source: "tiktok", Users: 3},
			{Date: "2025-09-24", Source: "app_store", Users: 2},
			{Date: "2025-09-24", Source: "facebook", Users: 8},
			{Date: "2025-09-24", Source: "friends_family", Users: 2},
			{Date: "2025-09-24", Source: "instagram", Users: 8},
			{Date: "2025-09-24", Source: "reddit", Users: 1},
			{Date: "2025-09-24", Source: "tiktok", Users: 13},
			{Date: "2025-09-24", Source: "youtube", Users: 1},
			{Date: "2025-09-23", Source: "app_store", Users: 1},
			{Date: "2025-09-23", Source: "facebook", Users: 33},
			{Date: "2025-09-23", Source: "friends_family", Users: 1},
			{Date: "2025-09-23", Source: "instagram", Users: 11},
			{Date: "2025-09-23", Source: "tiktok", Users: 22},
			{Date: "2025-09-23", Source: "twitter_x", Users: 1},
			{Date: "2025-09-23", Source: "youtube", Users: 3},
			{Date: "2025-09-22", Source: "app_store", Users: 3},
			{Date: "2025-09-22", Source: "facebook", Users: 21},
			{Date: "2025-09-22", Source: "instagram", Users: 8},
			{Date: "2025-09-22", Source: "tiktok", Users: 8},
			{Date: "2025-09-22", Source: "twitter_x", Users: 1},
			{Date: "2025-09-21", Source: "app_store", Users: 3},
			{Date: "2025-09-21", Source: "facebook", Users: 29},
			{Date: "2025-09-21", Source: "instagram", Users: 12},
			{Date: "2025-09-21", Source: "tiktok", Users: 9},
			{Date: "2025-09-20", Source: "app_store", Users: 6},
			{Date: "2025-09-20", Source: "facebook", Users: 13},
			{Date: "2025-09-20", Source: "friends_family", Users: 6},
			{Date: "2025-09-20", Source: "instagram", Users: 6},
			{Date: "2025-09-20", Source: "tiktok", Users: 10},
			{Date: "2025-09-19", Source: "Unknown", Users: 9},
			{Date: "2025-09-19", Source: "app_store", Users: 2},
			{Date: "2025-09-19", Source: "facebook", Users: 16},
			{Date: "2025-09-19", Source: "friends_family", Users: 4},
			{Date: "2025-09-19", Source: "instagram", Users: 8},
			{Date: "2025-09-19", Source: "tiktok", Users: 3},
			{Date: "2025-09-19", Source: "youtube", Users: 2},
			{Date: "2025-09-18", Source: "facebook", Users: 35},
			{Date: "2025-09-18", Source: "friends_family", Users: 1},
			{Date: "2025-09-18", Source: "instagram", Users: 7},
			{Date: "2025-09-18", Source: "strava", Users: 1},
			{Date: "2025-09-18", Source: "tiktok", Users: 1},
			{Date: "2025-09-17", Source: "Unknown", Users: 1},
			{Date: "2025-09-17", Source: "app_store", Users: 2},
			{Date: "2025-09-17", Source: "facebook", Users: 7},
			{Date: "2025-09-17", Source: "friends_family", Users: 4},
			{Date: "2025-09-17", Source: "instagram", Users: 5},
			{Date: "2025-09-17", Source: "tiktok", Users: 2},
			{Date: "2025-09-16", Source: "Unknown", Users: 3},
			{Date: "2025-09-16", Source: "facebook", Users: 7},
			{Date: "2025-09-16", Source: "instagram", Users: 4},
			{Date: "2025-09-16", Source: "tiktok", Users: 5},
			{Date: "2025-09-16", Source: "youtube", Users: 2},
			{Date: "2025-09-15", Source: "Unknown", Users: 4},
			{Date: "2025-09-15", Source: "app_store", Users: 4},
			{Date: "2025-09-15", Source: "facebook", Users: 6},
			{Date: "2025-09-15", Source: "friends_family", Users: 1},
			{Date: "2025-09-15", Source: "instagram", Users: 5},
			{Date: "2025-09-15", Source: "tiktok", Users: 2},
			{Date: "2025-09-14", Source: "Unknown", Users: 2},
			{Date: "2025-09-14", Source: "app_store", Users: 1},
			{Date: "2025-09-14", Source: "facebook", Users: 6},
			{Date: "2025-09-14", Source: "instagram", Users: 2},
			{Date: "2025-09-14", Source: "tiktok", Users: 4},
		},
		PaidDays: []PaidDay{
			{Date: "2025-09-25", Source: "Unknown", PaidUsers: 3},
			{Date: "2025-09-24", Source: "Unknown", PaidUsers: 2},
			{Date: "2025-09-23", Source: "Unknown", PaidUsers: 4},
			{Date: "2025-09-22", Source: "Unknown", PaidUsers: 4},
			{Date: "2025-09-21", Source: "Unknown", PaidUsers: 8},
			{Date: "2025-09-20", Source: "Unknown", PaidUsers: 6},
			{Date: "2025-09-19", Source: "Unknown", PaidUsers: 3},
			{Date: "2025-09-18", Source: "Unknown", PaidUsers: 2},
			{Date: "2025-09-17", Source: "Unknown", PaidUsers: 3},
			{Date: "2025-09-16", Source: "Unknown", PaidUsers: 3},
			{Date: "2025-09-15", Source: "Unknown", PaidUsers: 4},
			{Date: "2025-09-14", Source: "Unknown", PaidUsers: 2},
			{Date: "2025-09-13", Source: "Unknown", PaidUsers: 2},
			{Date: "2025-09-12", Source: "Unknown", PaidUsers: 5},
			{Date: "2025-09-11", Source: "Unknown", PaidUsers: 5},
			{Date: "2025-09-10", Source: "Unknown", PaidUsers: 10},
			{Date: "2025-09-09", Source: "Unknown", PaidUsers: 6},
			{Date: "2025-09-08", Source: "Unknown", PaidUsers: 7},
			{Date: "2025-09-07", Source: "Unknown", PaidUsers: 5},
			{Date: "2025-09-06", Source: "Unknown", PaidUsers: 5},
		},

		Regions: []RegionPayment{
			{Region: "United States (Eastern)", Payers: 29, Payments: 43, Revenue: 920.00, AvgPayment: 21.40, RevenuePerUser: 31.72},
			{Region: "United States (Central)", Payers: 23, Payments: 29, Revenue: 690.00, AvgPayment: 23.79, RevenuePerUser: 30.00},
			{Region: "United States (Pacific)", Payers: 15, Payments: 23, Revenue: 500.00, AvgPayment: 21.74, RevenuePerUser: 33.33},
			{Region: "Europe", Payers: 6, Payments: 8, Revenue: 195.00, AvgPayment: 24.38, RevenuePerUser: 32.50},
			{Region: "Pacific", Payers: 1, Payments: 5, Revenue: 100.00, AvgPayment: 20.00, RevenuePerUser: 100.00},
			{Region: "Americas (Other)", Payers: 2, Payments: 2, Revenue: 50.00, AvgPayment: 25.00, RevenuePerUser: 25.00},
			{Region: "Asia", Payers: 2, Payments: 3, Revenue: 30.00, AvgPayment: 10.00, RevenuePerUser: 15.00},
		},

		Paid: defaultPaidProfile(),
	}
}

func defaultPaidProfile() PaidProfile {
	return PaidProfile{
		TotalPaidUsers:     67,
		TotalRevenue:       2190.00,
		StatedARPU:         32.69,
		RecentPayments30d:  90,
		RecentRevenue30d:   1950.00,
		RecentPayers30d:    60,
		StatedAvgAge:       34.1,
		MinAge:             17,
		MaxAge:             62,
		StatedAvgPayment:   21.67,
		MultiPaymentUsers:  22,
		SameDayFirstPayers: 60,

		Gender: []Count{
			{Label: "Female", Count: 47},
			{Label: "Male", Count: 20},
		},
		LeadSources: []Count{
			{Label: "TikTok", Count: 20},
			{Label: "Instagram", Count: 12},
			{Label: "Facebook", Count: 11},
			{Label: "Unknown", Count: 14},
			{Label: "Others", Count: 10},
		},
		AuthMethods: []Count{
			{Label: "Apple", Count: 49},
			{Label: "Google", Count: 18},
		},
		TopPayers: []Payer{
			{Name: "tara moore", Amount: 105.00, Payments: 5, Source: "facebook", Age: 46, Gender: "female"},
			{Name: "Fleur Chalk", Amount: 100.00, Payments: 5, Source: "instagram", Age: 44, Gender: "female"},
			{Name: "Hope", Amount: 85.00, Payments: 4, Source: "tiktok", Age: 31, Gender: "female"},
			{Name: "Ellis (Apple)", Amount: 75.00, Payments: 3, Source: "facebook", Age: 22, Gender: "male"},
			{Name: "Delsey Olds", Amount: 55.00, Payments: 3, Source: "instagram", Age: 34, Gender: "female"},
		},
		Challenges: []Count{
			{Label: "Steps Challenges", Count: 45},
			{Label: "Calorie Burn", Count: 15},
			{Label: "Sleep Challenges", Count: 3},
			{Label: "Mixed/Other", Count: 4},
		},
		Wearables: []Count{
			{Label: "Apple Watch", Count: 25},
			{Label: "Garmin", Count: 15},
			{Label: "iPhone", Count: 8},
			{Label: "Fitbit", Count: 3},
			{Label: "WHOOP", Count: 6},
			{Label: "Oura", Count: 2},
			{Label: "None/Other", Count: 8},
		},
		Timezones: []Count{
			{Label: "America/New_York", Count: 18},
			{Label: "America/Chicago", Count: 12},
			{Label: "America/Los_Angeles", Count: 11},
			{Label: "America/Phoenix", Count: 3},
			{Label: "Europe/Bucharest", Count: 3},
			{Label: "Other", Count: 20},
		},
		Goals: []Count{
			{Label: "lose_weight", Count: 58},
			{Label: "sleep_better", Count: 48},
			{Label: "build_muscle", Count: 45},
			{Label: "improve_longevity", Count: 42},
		},
		Geography: []Count{
			{Label: "East Coast", Count: 18},
			{Label: "Central", Count: 12},
			{Label: "West Coast", Count: 11},
			{Label: "International", Count: 26},
		},
		FirstPayment: []Count{
			{Label: "Same Day", Count: 60},
			{Label: "1-3 Days", Count: 4},
			{Label: "4-7 Days", Count: 2},
			{Label: "1+ Weeks", Count: 1},
		},
		SampleAges: []float64{
			34, 31, 46, 22, 30, 44, 17, 29, 37, 40, 48, 34, 31, 46, 29, 24, 36,
			32, 21, 20, 25, 38, 24, 36, 52, 56, 57, 30, 31, 29, 42, 45, 31, 49,
			29, 41, 32, 25, 46, 22, 31, 33, 39, 27, 22, 25, 26, 62, 25, 59, 36,
			25, 36, 46, 22, 31, 33, 39, 27, 22, 25, 26, 62, 25, 59, 36, 25,
		},
		SamplePayments: repeat([]float64{25, 25, 25, 25, 25, 20, 15, 10, 5}, 7),
	}
}

func repeat(values []float64, times int) []float64 {
	out := make([]float64, 0, len(values)*times)
	for i := 0; i < times; i++ {
		out = append(out, values...)
	}
	return out
}
