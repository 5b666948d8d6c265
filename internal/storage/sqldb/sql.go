package sqldb

const hotelColumns = `id, name, address, city, tax_id, max_rooms, created_at, updated_at`

const roomColumns = `id, hotel_id, type, accommodation, quantity, created_at, updated_at`

const listHotelsSQL = `SELECT ` + hotelColumns + ` FROM hotels ORDER BY created_at, id`

const getHotelSQL = `SELECT ` + hotelColumns + ` FROM hotels WHERE id = ?`

// MySQL appends FOR UPDATE; SQLite already holds the database write lock
// for the rest of the transaction once it writes.
const lockHotelSuffix = ` FOR UPDATE`

const hotelTakenSQL = `
SELECT
  COALESCE(SUM(CASE WHEN name = ? THEN 1 ELSE 0 END), 0),
  COALESCE(SUM(CASE WHEN tax_id = ? THEN 1 ELSE 0 END), 0)
FROM hotels
WHERE id <> ? AND (name = ? OR tax_id = ?)
`

const insertHotelSQL = `
INSERT INTO hotels (` + hotelColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

const updateHotelSQL = `
UPDATE hotels
SET name = ?, address = ?, city = ?, tax_id = ?, max_rooms = ?, updated_at = ?
WHERE id = ?
`

const deleteHotelSQL = `DELETE FROM hotels WHERE id = ?`

const listAllRoomsSQL = `SELECT ` + roomColumns + ` FROM rooms ORDER BY created_at, id`

const listRoomsByHotelSQL = `SELECT ` + roomColumns + ` FROM rooms WHERE hotel_id = ? ORDER BY created_at, id`

// Rooms joined with their owning hotel, grouped by hotel in creation order.
const listRoomsWithHotelSQL = `
SELECT
  r.id, r.hotel_id, r.type, r.accommodation, r.quantity, r.created_at, r.updated_at,
  h.id, h.name, h.address, h.city, h.tax_id, h.max_rooms, h.created_at, h.updated_at
FROM rooms r
JOIN hotels h ON h.id = r.hotel_id
ORDER BY h.created_at, h.id, r.created_at, r.id
`

const getRoomWithHotelSQL = `
SELECT
  r.id, r.hotel_id, r.type, r.accommodation, r.quantity, r.created_at, r.updated_at,
  h.id, h.name, h.address, h.city, h.tax_id, h.max_rooms, h.created_at, h.updated_at
FROM rooms r
JOIN hotels h ON h.id = r.hotel_id
WHERE r.id = ?
`

const insertRoomSQL = `
INSERT INTO rooms (` + roomColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

const updateRoomSQL = `
UPDATE rooms
SET type = ?, accommodation = ?, quantity = ?, updated_at = ?
WHERE id = ?
`

const deleteRoomSQL = `DELETE FROM rooms WHERE id = ?`

const deleteRoomsByHotelSQL = `DELETE FROM rooms WHERE hotel_id = ?`
