// Package omr содержит чистую (без OpenCV) часть распознавания бланка:
// упорядочивание угловых меток, раскладку сетки пузырьков, правило выбора
// ответа, декодирование номера студента и подсчёт баллов.
//
// Все функции зависят только от входных данных и GeometryConfig, без общего
// изменяемого состояния, поэтому их можно вызывать из разных горутин.
package omr
