package bot

// Command names.
const (
	CmdStart   = "start"
	CmdHelp    = "help"
	CmdReset   = "reset"
	CmdLead    = "lead"
	CmdTenders = "tenders"
)

// Keyword that switches a staged upload from rule filtering to lead
// scoring.
const scoreKeyword = "оценка"

// Log field names.
const (
	LogFieldUserID   = "user_id"
	LogFieldUsername = "username"
	LogFieldChatID   = "chat_id"
)

// User-facing strings. Russian is hard-coded throughout.
const (
	MsgStart = "Привет! Я готов. Напиши вопрос.\nКоманда: /reset — очистка контекста."
	MsgHelp  = "Я — Product Data Assistant.\n\n" +
		"Команды:\n" +
		"/start — приветствие\n" +
		"/reset — очистить контекст диалога\n" +
		"/lead Название; Имя; Телефон; Комментарий — создать лид в CRM\n" +
		"/tenders — показать актуальные тендеры\n\n" +
		"Пришлите файл .xlsx или .csv, затем отправьте правила фильтрации\n" +
		"(например: Цена>=100000; Статус~актив) или напишите «оценка»\n" +
		"для скоринга лидов."
	MsgReset          = "Контекст очищен. Поехали заново ✨"
	MsgUnknownCommand = "Неизвестная команда. /help — список команд."
	MsgGenericError   = "Что-то пошло не так. Попробуйте ещё раз."

	MsgLeadUsage         = "Формат: /lead Название; Имя; Телефон; Комментарий (имя, телефон и комментарий необязательны)."
	MsgLeadNotConfigured = "CRM не настроена: не задан адрес вебхука."
	MsgLeadCreated       = "Лид создан, id %s."
	MsgLeadFailed        = "Не удалось создать лид: %v"

	MsgTendersNotConfigured = "Лента тендеров не настроена."
	MsgTendersEmpty         = "Подходящих тендеров не найдено."
	MsgTendersFailed        = "Не удалось получить тендеры: %v"

	MsgFileStaged = "Файл «%s» получен. Отправьте правила фильтрации\n" +
		"(например: Цена>=100000; Статус~актив) или напишите «оценка»\n" +
		"для скоринга лидов."
	MsgFileUnsupported   = "Поддерживаются файлы .xlsx, .xlsm и .csv."
	MsgFileDownloadError = "Не удалось скачать файл. Попробуйте ещё раз."
	MsgFileParseError    = "Не удалось разобрать файл: %v"
	MsgFileExportError   = "Не удалось сформировать результат: %v"
	MsgNoRowsLeft        = "После фильтрации не осталось ни одной строки."
	MsgScoreSummary      = "Оценка завершена: из %d строк отобрано %d.\nКолонки: наименование «%s», клиент «%s», сумма «%s»."
	MsgRulesSkipped      = "Не удалось разобрать: %s"
)
