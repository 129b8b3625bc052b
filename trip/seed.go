package trip

// Built-in defaults used to initialize an absent document and to heal
// missing fields on a partially seeded one. DefaultDays is also the
// content a schema-version bump forces back in.

func DefaultTodoCategories() []Category {
	return []Category{
		{ID: "todo", Label: "一般待辦", Color: "slate", IsDefault: true},
		{ID: "packing", Label: "行李準備", Color: "blue", IsDefault: true},
		{ID: "shopping", Label: "購物清單", Color: "orange", IsDefault: true},
		{ID: "gift", Label: "伴手禮", Color: "pink", IsDefault: true},
		{ID: "docs", Label: "證件文件", Color: "purple", IsDefault: true},
	}
}

func DefaultExpenseCategories() []Category {
	return []Category{
		{ID: "food", Label: "美食", Color: "orange", IsDefault: true},
		{ID: "transport", Label: "交通", Color: "blue", IsDefault: true},
		{ID: "shopping", Label: "購物", Color: "pink", IsDefault: true},
		{ID: "ticket", Label: "票券", Color: "emerald", IsDefault: true},
		{ID: "hotel", Label: "住宿", Color: "indigo", IsDefault: true},
		{ID: "other", Label: "其他", Color: "gray", IsDefault: true},
	}
}

func DefaultTodos() []Todo {
	return []Todo{
		{ID: "1", Text: "確認護照效期", Category: "docs"},
		{ID: "2", Text: "申請澳洲 ETA 電子簽證", Category: "docs"},
		{ID: "3", Text: "買轉接頭 (八字型)", Category: "packing"},
	}
}

func DefaultLinks() []BookingLink {
	return []BookingLink{
		{ID: "1", Title: "SkyBus 車票", Kind: "transport", URL: "https://www.skybus.com.au/", Details: "機場快線電子票"},
		{ID: "2", Title: "澳網 2026 門票", Kind: "ticket", URL: "https://www.ticketmaster.com.au/australian-open-tickets/artist/1154563", Details: "Ground Pass / RLA"},
		{ID: "4", Title: "菲利普島企鵝歸巢", Kind: "ticket", URL: "https://www.penguins.org.au/", Details: "入場憑證 QR Code"},
	}
}

func DefaultDays() []Day {
	return []Day{
		{
			Day: 1, Date: "2026-01-21", Weekday: "週三", Weather: WeatherSunny, Temp: 24,
			Tips: "轉機時間約 4 小時，樟宜機場 T1 有許多免稅店可逛。",
			Events: []Event{
				{
					ID: "1-0", Time: "01:45", Title: "台北(TPE) 飛往 新加坡(SIN)",
					Location: "Taoyuan Intl Airport (TPE)", Kind: EventFlight,
					Notes: "Scoot TR 897\nBooking: M87K4P", BookingURL: "https://www.flyscoot.com/",
					FlightDetails: &FlightDetails{
						FlightNumber: "TR 897", Airline: "Scoot B787-9",
						DepartCode: "TPE", ArriveCode: "SIN",
						DepartTerminal: "1", ArriveTerminal: "1", Duration: "4h 40m",
					},
				},
				{
					ID: "1-1", Time: "10:20", Title: "新加坡(SIN) 飛往 墨爾本(MEL)",
					Location: "Changi Airport (SIN)", Kind: EventFlight,
					Notes: "Scoot TR 24\nLayover: 3h 55m", BookingURL: "https://www.flyscoot.com/",
					FlightDetails: &FlightDetails{
						FlightNumber: "TR 24", Airline: "Scoot B787-9",
						DepartCode: "SIN", ArriveCode: "MEL",
						DepartTerminal: "1", ArriveTerminal: "2", Duration: "7h 30m",
					},
				},
				{ID: "1-2", Time: "20:50", Title: "抵達墨爾本機場", Location: "Melbourne Airport", Lat: -37.6690, Lng: 144.8410, Kind: EventTransport, Notes: "準備入境檢查"},
				{ID: "1-3", Time: "21:40", Title: "搭乘 SkyBus 前往市區", Location: "Southern Cross Station", Lat: -37.8183, Lng: 144.9525, Kind: EventTransport, Notes: "直達南十字星車站"},
				{ID: "1-4", Time: "22:30", Title: "入住: Inner CBD Apartment", Location: "Melbourne CBD (Near Southern Cross)", Lat: -37.8150, Lng: 144.9550, Kind: EventHotel, Notes: "HDSS07/InnerCBD/1Min->Station"},
			},
		},
		{
			Day: 2, Date: "2026-01-22", Weekday: "週四", Weather: WeatherSunny, Temp: 28,
			Tips: "澳網人潮眾多，請務必做好防曬與補水。",
			Events: []Event{
				{ID: "2-1", Time: "10:00", Title: "澳網: 外場通行證入場", Location: "Melbourne Park", Lat: -37.8216, Lng: 144.9785, Kind: EventActivity, Notes: "探索外圍球場氣氛"},
				{ID: "2-2", Time: "12:00", Title: "觀賞外場賽事", Location: "Melbourne Park Outdoor Courts", Lat: -37.8220, Lng: 144.9790, Kind: EventActivity, Notes: "防曬乳要勤補"},
				{ID: "2-3", Time: "15:00", Title: "John Cain / KIA Arena", Location: "John Cain Arena", Lat: -37.8230, Lng: 144.9800, Kind: EventActivity, Notes: "Ground Pass 可進入"},
				{ID: "2-4", Time: "18:00", Title: "Garden Square 晚餐", Location: "Garden Square", Lat: -37.8210, Lng: 144.9780, Kind: EventFood, Notes: "享受現場音樂與餐車"},
			},
		},
		{
			Day: 3, Date: "2026-01-23", Weekday: "週五", Weather: WeatherPartlyCloudy, Temp: 26,
			Tips: "今日換飯店，請確認退房時間與行李寄放。",
			Events: []Event{
				{ID: "3-1", Time: "10:00", Title: "退房 & 澳網 Day 2", Location: "Melbourne Park", Lat: -37.8216, Lng: 144.9785, Kind: EventActivity, Notes: "查看頂尖選手練習"},
				{ID: "3-2", Time: "13:00", Title: "Grand Slam Oval 午餐", Location: "Grand Slam Oval", Lat: -37.8225, Lng: 144.9795, Kind: EventFood, Notes: "各國美食匯聚"},
				{ID: "3-3", Time: "16:00", Title: "更多網球賽事", Location: "Melbourne Park", Lat: -37.8216, Lng: 144.9785, Kind: EventActivity, Notes: "持票免費搭乘 70 號電車"},
				{ID: "3-4", Time: "20:00", Title: "入住: 亞特蘭蒂斯飯店", Location: "300 Spencer St, Melbourne", Lat: -37.8119, Lng: 144.9536, Kind: EventHotel, Notes: "Atlantis Hotel Melbourne", BookingURL: "https://www.agoda.com/zh-tw/account/editbooking.html?bookingId=Z8C4Kfulw2iR33s2tqaz9g%3D%3D&landFrom=TripDetail&sort=BookingStartDate&state=Upcoming&page=1&ds=xCyHKy4CaORlQkTX"},
			},
		},
		{
			Day: 4, Date: "2026-01-24", Weekday: "週六", Weather: WeatherSunny, Temp: 25,
			Tips: "大洋路彎道多，請小心駕駛；記得右駕靠左。",
			Events: []Event{
				{ID: "4-0", Time: "10:15", Title: "前往 Footscray 取車", Location: "300 Spencer St to Footscray", Lat: -37.8119, Lng: 144.9536, Kind: EventTransport, Notes: "建議搭乘 Uber/Didi (約15分鐘) 攜帶行李較方便。"},
				{ID: "4-1", Time: "11:00", Title: "SIXT 取車: Toyota Yaris", Location: "SIXT Car Rental Footscray", Lat: -37.8030, Lng: 144.9020, Kind: EventTransport, Notes: "Booking: 9729138629. 記得攜帶駕照/譯本。", BookingURL: "https://mail.google.com/mail/u/0/?ogbl#search/sixt/FMfcgzQdzwHKBFvZVxCLZzsKMsMqBlbV"},
				{ID: "4-2", Time: "12:30", Title: "托爾坎衝浪海灘", Location: "Torquay Surf Beach", Lat: -38.3324, Lng: 144.3159, Kind: EventActivity, Notes: "大洋路起點"},
				{ID: "4-3", Time: "13:30", Title: "洛恩小鎮午餐", Location: "Lorne", Lat: -38.5415, Lng: 143.9754, Kind: EventFood, Notes: "美麗的海濱小鎮"},
				{ID: "4-4", Time: "16:00", Title: "阿波羅灣", Location: "Apollo Bay", Lat: -38.7558, Lng: 143.6558, Kind: EventActivity, Notes: "中途休息點"},
				{ID: "4-5", Time: "18:00", Title: "入住: Apollo Stay", Location: "38 Thomson Street, Apollo Bay", Lat: -38.7560, Lng: 143.6560, Kind: EventHotel, Notes: "Check-in: 15:00~20:00", BookingURL: "https://secure.booking.com/confirmation.zh-tw.html?label=mkt123sc-d7a379ea-aab6-4237-b9c5-b29721aadb1f&sid=e6ffd707b4250120589a18d560ea263f&aid=1536461&auth_key=sk2PHyKEv8wF0rTa&source=mytrips"},
			},
		},
		{
			Day: 5, Date: "2026-01-25", Weekday: "週日", Weather: WeatherPartlyCloudy, Temp: 23,
			Tips: "清晨前往十二使徒岩可避開人潮。",
			Events: []Event{
				{ID: "5-1", Time: "09:00", Title: "十二使徒岩", Location: "Twelve Apostles", Lat: -38.6621, Lng: 143.1051, Kind: EventActivity, Notes: "經典地標"},
				{ID: "5-2", Time: "10:30", Title: "倫敦拱橋 & 石窟", Location: "London Bridge", Lat: -38.6235, Lng: 142.9304, Kind: EventActivity, Notes: "大自然的鬼斧神工"},
				{ID: "5-3", Time: "13:00", Title: "驅車前往格蘭屏", Location: "Grampians Road", Lat: -37.5, Lng: 142.5, Kind: EventTransport, Notes: "往內陸前進"},
				{ID: "5-4", Time: "16:30", Title: "入住: Mountain View Motor Inn", Location: "4236 Ararat-Halls Gap Road, Halls Gap", Lat: -37.1550, Lng: 142.5350, Kind: EventHotel, Notes: "山景汽車旅館和度假小屋", BookingURL: "https://secure.booking.com/confirmation.zh-tw.html?label=mkt123sc-d7a379ea-aab6-4237-b9c5-b29721aadb1f&sid=e6ffd707b4250120589a18d560ea263f&aid=1536461&auth_key=SqXbY6BoFNUqmawu&source=mytrips"},
			},
		},
		{
			Day: 6, Date: "2026-01-26", Weekday: "週一", Weather: WeatherCloudy, Temp: 22,
			Tips: "黃昏時段開車請務必小心袋鼠衝出。",
			Events: []Event{
				{ID: "6-1", Time: "09:00", Title: "Boroka 觀景台", Location: "Boroka Lookout", Lat: -37.1235, Lng: 142.5028, Kind: EventActivity, Notes: "俯瞰壯麗山谷"},
				{ID: "6-2", Time: "11:00", Title: "Brambuk 文化中心", Location: "Brambuk Cultural Centre", Lat: -37.1472, Lng: 142.5273, Kind: EventActivity, Notes: "原住民歷史"},
				{ID: "6-3", Time: "15:00", Title: "返回墨爾本", Location: "Western Highway", Lat: -37.5, Lng: 143.5, Kind: EventTransport, Notes: "約 3.5 小時車程"},
				{ID: "6-4", Time: "18:00", Title: "入住: City Apartment (Bozhu)", Location: "371 Little Lonsdale Street", Lat: -37.8115, Lng: 144.9590, Kind: EventHotel, Notes: "位於墨爾本的房源"},
			},
		},
		{
			Day: 7, Date: "2026-01-27", Weekday: "週二", Weather: WeatherSunny, Temp: 27,
			Tips: "八強賽事精彩，上午還車後直接前往球場。",
			Events: []Event{
				{ID: "7-0", Time: "10:00", Title: "前往還車", Location: "Footscray", Lat: -37.8030, Lng: 144.9020, Kind: EventTransport, Notes: "預留時間加油與檢查"},
				{ID: "7-1", Time: "11:00", Title: "SIXT 還車", Location: "SIXT Car Rental Footscray", Lat: -37.8030, Lng: 144.9020, Kind: EventTransport, Notes: "還車截止時間 11:00 AM"},
				{ID: "7-2", Time: "11:30", Title: "前往澳網球場", Location: "Rod Laver Arena", Lat: -37.8216, Lng: 144.9785, Kind: EventTransport, Notes: "搭乘火車或 Uber"},
				{ID: "7-3", Time: "12:00", Title: "澳網: 八強賽 Day 1", Location: "Rod Laver Arena", Lat: -37.8216, Lng: 144.9785, Kind: EventActivity, Notes: "見證頂尖對決"},
				{ID: "7-4", Time: "19:00", Title: "市區晚餐", Location: "Melbourne CBD", Lat: -37.8136, Lng: 144.9631, Kind: EventFood},
			},
		},
		{
			Day: 8, Date: "2026-01-28", Weekday: "週三", Weather: WeatherSunny, Temp: 29,
			Tips: "皇家拱廊地板磁磚很美，記得拍照。",
			Events: []Event{
				{ID: "8-1", Time: "11:00", Title: "澳網: 八強賽 Day 2", Location: "Rod Laver Arena", Lat: -37.8216, Lng: 144.9785, Kind: EventActivity, Notes: "熱血賽事"},
				{ID: "8-2", Time: "16:00", Title: "皇家拱廊購物", Location: "Royal Arcade", Lat: -37.8143, Lng: 144.9644, Kind: EventActivity, Notes: "墨爾本最古老拱廊"},
				{ID: "8-3", Time: "19:00", Title: "Yarra River 散步", Location: "Southbank", Lat: -37.8200, Lng: 144.9650, Kind: EventActivity, Notes: "欣賞夜景"},
			},
		},
		{
			Day: 9, Date: "2026-01-29", Weekday: "週四", Weather: WeatherPartlyCloudy, Temp: 24,
			Tips: "因已還車，建議參加菲利普島一日遊。",
			Events: []Event{
				{ID: "9-1", Time: "12:30", Title: "菲利普島一日遊接駁", Location: "Federation Square", Lat: -37.8179, Lng: 144.9691, Kind: EventTransport, Notes: "集合出發 (需預訂)"},
				{ID: "9-2", Time: "15:00", Title: "Moonlit Sanctuary", Location: "Moonlit Sanctuary", Lat: -38.2173, Lng: 145.2530, Kind: EventActivity, Notes: "近距離接觸無尾熊"},
				{ID: "9-3", Time: "19:30", Title: "企鵝歸巢", Location: "Penguin Parade", Lat: -38.5089, Lng: 145.1485, Kind: EventActivity, Notes: "可愛小企鵝上岸"},
				{ID: "9-4", Time: "22:30", Title: "返回市區", Location: "Melbourne CBD", Lat: -37.8136, Lng: 144.9631, Kind: EventTransport, Notes: "結束一日遊"},
			},
		},
		{
			Day: 10, Date: "2026-01-30", Weekday: "週五", Weather: WeatherCloudy, Temp: 21,
			Tips: "維多利亞市場週五下午3點就打烊，請早點去！",
			Events: []Event{
				{ID: "10-1", Time: "09:00", Title: "咖啡巷弄巡禮", Location: "Degraves Street", Lat: -37.8166, Lng: 144.9660, Kind: EventFood, Notes: "品嚐世界級咖啡"},
				{ID: "10-2", Time: "10:30", Title: "維多利亞女王市場", Location: "Queen Victoria Market", Lat: -37.8076, Lng: 144.9568, Kind: EventActivity, Notes: "購買紀念品"},
				{ID: "10-3", Time: "13:00", Title: "Bratwurst 德國香腸堡", Location: "QVM Deli Hall", Lat: -37.8076, Lng: 144.9568, Kind: EventFood, Notes: "市場必吃美食"},
				{ID: "10-4", Time: "15:00", Title: "市區自由活動", Location: "CBD", Lat: -37.8136, Lng: 144.9631, Kind: EventActivity},
			},
		},
		{
			Day: 11, Date: "2026-01-31", Weekday: "週六", Weather: WeatherSunny, Temp: 23,
			Tips: "前往機場前，請預留充裕時間遇上交通尖峰。",
			Events: []Event{
				{ID: "11-1", Time: "10:00", Title: "最後採購", Location: "Spencer Outlet Centre", Lat: -37.8155, Lng: 144.9530, Kind: EventActivity, Notes: "南十字星車站樓上"},
				{ID: "11-2", Time: "13:00", Title: "河畔漫步", Location: "Southbank Promenade", Lat: -37.8205, Lng: 144.9654, Kind: EventActivity, Notes: "告別墨爾本"},
				{ID: "11-3", Time: "19:00", Title: "搭乘 SkyBus 往機場", Location: "Southern Cross Station", Lat: -37.8183, Lng: 144.9525, Kind: EventTransport, Notes: "前往 T2 航廈"},
				{
					ID: "11-4", Time: "22:35", Title: "墨爾本(MEL) 飛往 新加坡(SIN)",
					Location: "Tullamarine Airport (MEL)", Kind: EventFlight,
					Notes: "Scoot TR 25\nBooking: M87K4P", BookingURL: "https://www.flyscoot.com/",
					FlightDetails: &FlightDetails{
						FlightNumber: "TR 25", Airline: "Scoot B787-9",
						DepartCode: "MEL", ArriveCode: "SIN",
						DepartTerminal: "2", ArriveTerminal: "1", Duration: "7h 45m",
					},
				},
			},
		},
		{
			Day: 12, Date: "2026-02-01", Weekday: "週日", Weather: WeatherPartlyCloudy, Temp: 20,
			Tips: "歡迎回家！記得調整時差。",
			Events: []Event{
				{ID: "12-1", Time: "03:20", Title: "抵達新加坡 (轉機)", Location: "Changi Airport (SIN)", Kind: EventTransport, Notes: "Layover: 4h 50m"},
				{
					ID: "12-2", Time: "08:10", Title: "新加坡(SIN) 飛往 台北(TPE)",
					Location: "Changi Airport (SIN)", Kind: EventFlight,
					Notes: "Scoot TR 874", BookingURL: "https://www.flyscoot.com/",
					FlightDetails: &FlightDetails{
						FlightNumber: "TR 874", Airline: "Scoot B787-9",
						DepartCode: "SIN", ArriveCode: "TPE",
						DepartTerminal: "1", ArriveTerminal: "1", Duration: "4h 35m",
					},
				},
				{ID: "12-3", Time: "12:45", Title: "抵達桃園機場", Location: "Taoyuan Intl Airport", Kind: EventTransport, Notes: "旅程圓滿結束"},
			},
		},
	}
}

// SeedDocument assembles the first-run document written by CreateIfAbsent.
func SeedDocument() *Document {
	doc := &Document{
		Days:              DefaultDays(),
		Expenses:          []Expense{},
		Links:             DefaultLinks(),
		Todos:             DefaultTodos(),
		TodoCategories:    DefaultTodoCategories(),
		ExpenseCategories: DefaultExpenseCategories(),
		Version:           SchemaVersion,
	}
	doc.Sanitize()
	return doc
}
